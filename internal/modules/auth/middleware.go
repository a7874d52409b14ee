package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Middleware attaches a Session when a valid bearer token is present.
// Requests without a token pass through anonymous; RequireUser decides.
func Middleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := ParseToken(key, raw)
			if err != nil {
				respond(w, http.StatusUnauthorized, map[string]string{"error": ErrInvalidToken.Error()})
				return
			}
			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				respond(w, http.StatusUnauthorized, map[string]string{"error": ErrInvalidToken.Error()})
				return
			}
			ctx := WithSession(r.Context(), Session{
				UserID: userID,
				Email:  claims.Email,
				Role:   claims.Role,
				Token:  raw,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			respond(w, http.StatusUnauthorized, map[string]string{"error": ErrNotAuthenticated.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFromContext(r.Context())
		if !ok {
			respond(w, http.StatusUnauthorized, map[string]string{"error": ErrNotAuthenticated.Error()})
			return
		}
		if !s.IsAdmin() {
			respond(w, http.StatusForbidden, map[string]string{"error": "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUserID reads the caller's id off the request.
func CurrentUserID(r *http.Request) (string, bool) {
	s, ok := SessionFromContext(r.Context())
	if !ok {
		return "", false
	}
	return s.UserID.String(), true
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
