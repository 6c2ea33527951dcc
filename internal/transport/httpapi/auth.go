package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/Freeeeeet/tutoring_api/internal/auth"
	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/google/uuid"
)

// Identity — аутентифицированный пользователь запроса
type Identity struct {
	UserID uuid.UUID
	Roles  []model.Role
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return id, ok
}

// WithAuth проверяет Bearer-токен и кладёт Identity в контекст запроса
func WithAuth(jwtSecret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := auth.ParseAndVerifyHS256(token, jwtSecret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			userID, err := uuid.Parse(claims.Sub)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token subject")
				return
			}

			roles := make([]model.Role, 0, len(claims.Roles))
			for _, role := range claims.Roles {
				roles = append(roles, model.Role(role))
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity, Identity{UserID: userID, Roles: roles})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole пропускает только пользователей с одной из перечисленных ролей
func RequireRole(roles ...model.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			for _, role := range roles {
				if model.HasRole(identity.Roles, role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "insufficient role")
		})
	}
}
