package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fintrack/fintrack/internal/ctxkeys"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/render"
)

const authCookieName = "auth_token"

type TokenVerifier interface {
	VerifyJWT(token string) (string, error)
}

type UserLoader interface {
	ByID(ctx context.Context, id string) (*model.User, error)
}

// AuthMiddleware resolves the user from a bearer token or the auth cookie
// and stores it in the request context. Requests without a valid token pass
// through anonymously; RequireAuth decides whether that is acceptable.
func AuthMiddleware(verifier TokenVerifier, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifier.VerifyJWT(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.ByID(r.Context(), userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			// Never carry the hash further than needed
			user.PasswordHash = ""

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	cookie, err := r.Cookie(authCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			render.Error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	}
}
