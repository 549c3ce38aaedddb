package handlers

import (
	"context"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

const msgUnauthorized = "требуется аутентификация"

type actorKey struct{}

// WithActor кладёт аутентифицированного пользователя в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor достаёт аутентифицированного пользователя из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// MustActor достаёт пользователя из контекста или отвечает 401
func MustActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := GetActor(r.Context())
	if !ok {
		RespondUnauthorized(w, msgUnauthorized)
	}
	return actor, ok
}
