package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
	"github.com/koshanqari/kanYini-connect-sub000/internal/store"
)

type ctxKey int

const userKey ctxKey = iota

// UserFromContext returns the authenticated user attached by Authenticate.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok
}

// Authenticate resolves the Authorization bearer token to a user and attaches
// it to the request context. Requests without an Authorization header pass
// through unauthenticated; RequireUser and RequireAdmin enforce access per
// route. A header carrying an unknown or expired token is rejected outright
// so clients learn their session is gone instead of acting anonymous.
func Authenticate(sessions store.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "malformed Authorization header")
				return
			}

			user, err := sessions.UserByToken(r.Context(), token)
			if err == store.ErrNotFound {
				unauthorized(w, "invalid or expired session")
				return
			}
			if err != nil {
				slog.Error("auth: session lookup failed",
					"path", r.URL.Path,
					"error", err.Error(),
				)
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			if !user.IsActive {
				unauthorized(w, "account is deactivated")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects unauthenticated requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			unauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests from non-admin users.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			unauthorized(w, "authentication required")
			return
		}
		if user.Role != model.RoleAdmin {
			slog.Warn("auth: admin route denied",
				"path", r.URL.Path,
				"method", r.Method,
				"user_id", user.ID,
			)
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"admin access required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser attaches a user to the context directly. Test helper.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, `{"error":"`+msg+`"}`, http.StatusUnauthorized)
}
