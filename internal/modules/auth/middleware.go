package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// Identity is the authenticated caller. Its absence from a context means
// the caller is anonymous.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type contextKey struct{}

// Middleware parses an optional bearer token into a context Identity.
// A missing or invalid token leaves the request anonymous; protected
// handlers decide whether that is an error.
func Middleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
				func(t *jwt.Token) (interface{}, error) { return secret, nil })
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			identity := Identity{UserID: userID, Email: claims.Email}
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), contextKey{}, identity)))
		})
	}
}

// FromContext yields the authenticated identity, or false for anonymous.
func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(Identity)
	return identity, ok
}

// WithIdentity returns ctx carrying identity. Test helper for handlers.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}
