package normalization

import "strings"

// ParseInputString normalizes identity-style fields (emails, subject names)
// where case never carries meaning.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TrimInput normalizes display fields (titles, descriptions) where case is
// preserved.
func TrimInput(input string) string {
	return strings.TrimSpace(input)
}

// ParseBoolFlag normalizes a visibility flag that may arrive as a native
// boolean (JSON body) or as form text. A native true and the literal "true"
// are the only truthy forms; every other representation is false.
func ParseBoolFlag(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
