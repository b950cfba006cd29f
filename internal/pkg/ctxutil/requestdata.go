package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData is the caller identity the auth middleware resolves before a
// handler runs. TeacherID stays uuid.Nil until the teacher gate loads the
// caller's teacher profile.
type RequestData struct {
	TokenString  string
	RefreshToken string
	UserID       uuid.UUID
	TeacherID    uuid.UUID
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}
