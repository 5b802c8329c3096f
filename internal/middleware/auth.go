package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jamspace/jamspace/internal/ctxkeys"
	"github.com/jamspace/jamspace/internal/model"
)

// Authenticator resolves an access token to a user, or nil when the token
// does not identify anyone.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) *model.User
}

// AuthMiddleware attaches the bearer token's user to the request context.
// It never rejects a request; handlers decide whether a user is required.
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user := auth.Authenticate(r.Context(), token)
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
