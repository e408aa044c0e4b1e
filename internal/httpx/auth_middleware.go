package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"libraryapi/internal/apperr"
	"libraryapi/internal/platform/crypto"
)

// Identity is what the identity store reports about a token's subject.
type Identity struct {
	UserID  int64
	IsAdmin bool
}

// IdentityResolver looks up the user a token was issued to. It must return an error
// of kind apperr.KindNotFound when the user no longer exists.
type IdentityResolver interface {
	Identity(ctx context.Context, userID int64) (Identity, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

var errNoBearer = errors.New("missing bearer token")

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return "", errNoBearer
	}
	return strings.TrimSpace(authHeader[len(prefix):]), nil
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="library"`)
	JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
}

// AuthMiddleware verifies the bearer token, rejects revoked tokens and resolves the
// subject against the identity store. Admin status comes from the store, not the token.
func AuthMiddleware(secret string, users IdentityResolver, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				unauthorized(w, r)
				return
			}

			claims, err := crypto.ParseToken(secret, token)
			if err != nil {
				unauthorized(w, r)
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				unauthorized(w, r)
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					slog.ErrorContext(r.Context(), "revocation check failed", "request_id", RequestIDFrom(r), "error", err)
					JSONError(w, r, http.StatusServiceUnavailable, "UNAVAILABLE", "Service unavailable", nil)
					return
				}
				if revoked {
					unauthorized(w, r)
					return
				}
			}

			ident, err := users.Identity(r.Context(), userID)
			if err != nil {
				if apperr.KindOf(err) == apperr.KindNotFound {
					unauthorized(w, r)
					return
				}
				slog.ErrorContext(r.Context(), "identity lookup failed", "request_id", RequestIDFrom(r), "user_id", userID, "error", err)
				JSONError(w, r, http.StatusServiceUnavailable, "UNAVAILABLE", "Service unavailable", nil)
				return
			}

			p := Principal{
				UserID:  ident.UserID,
				IsAdmin: ident.IsAdmin,
				TokenID: claims.ID,
			}
			if claims.ExpiresAt != nil {
				p.TokenExpiresAt = claims.ExpiresAt.Time
			}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r)
		if !ok {
			unauthorized(w, r)
			return
		}
		if !p.IsAdmin {
			JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Admin privileges required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
