package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/domain"
)

const (
	msgMissingToken = "требуется bearer токен"
	msgInvalidToken = "недействительный токен"
)

var (
	errInvalidSubject = errors.New("invalid subject claim")
	errInvalidRole    = errors.New("invalid role claim")
)

// Claims утверждения токена, выпущенного сервисом аутентификации
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth проверяет bearer токен (HS256) и кладёт domain.Actor в контекст запроса
func Auth(secret string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			actor, err := ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil {
				logger.Warn("%s %s - Invalid token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithActor(r.Context(), actor)))
		})
	}
}

// ParseToken проверяет подпись и срок действия токена и возвращает пользователя
func ParseToken(raw, secret string) (domain.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Actor{}, err
	}
	if !token.Valid {
		return domain.Actor{}, jwt.ErrTokenInvalidClaims
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return domain.Actor{}, fmt.Errorf("%w: %q", errInvalidSubject, claims.Subject)
	}

	role := domain.Role(claims.Role)
	if !role.IsValid() {
		return domain.Actor{}, fmt.Errorf("%w: %q", errInvalidRole, claims.Role)
	}

	return domain.Actor{UserID: userID, Role: role}, nil
}
