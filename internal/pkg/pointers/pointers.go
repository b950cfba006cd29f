package pointers

// Ptr returns a pointer to v. Update inputs use it to mark a field as
// explicitly supplied.
func Ptr[T any](v T) *T { return &v }
