package httpx

import (
	"context"
	"net/http"
	"time"
)

type contextKey string

const (
	principalKey   contextKey = "principal"
	requestIDKey   contextKey = "requestID"
	requestInfoKey contextKey = "requestInfo"
)

// Principal is the authenticated caller attached by AuthMiddleware.
type Principal struct {
	UserID         int64
	IsAdmin        bool
	TokenID        string
	TokenExpiresAt time.Time
}

// requestInfo is shared by pointer so outer middleware can read what inner
// middleware learned about the request.
type requestInfo struct {
	userID int64
}

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	if info, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		info.userID = p.UserID
	}
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFrom(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(principalKey).(Principal)
	return p, ok
}

// UserIDFrom returns the caller's user id, or 0 for anonymous requests.
func UserIDFrom(r *http.Request) int64 {
	if p, ok := PrincipalFrom(r); ok {
		return p.UserID
	}
	return 0
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(r *http.Request) string {
	return RequestIDFromContext(r.Context())
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
