package middleware

import (
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/domain"
)

const (
	msgUnauthorized = "требуется аутентификация"
	msgForbidden    = "доступ запрещен"
)

// RequireRole пропускает запрос, только если роль пользователя входит в roles.
// Должен стоять после Auth.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := handlers.GetActor(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}
			if !allowed[actor.Role] {
				handlers.RespondForbidden(w, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
