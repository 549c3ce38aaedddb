package get_wallet

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/service/wallet"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgUserNotFound  = "пользователь не найден"
	msgForbidden     = "доступ запрещен"
)

type Handler struct {
	service WalletService
	logger  Logger
}

func NewHandler(service WalletService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}/wallet
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		h.logger.Warn("GET /users/{id}/wallet - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	actor, ok := handlers.MustActor(w, r)
	if !ok {
		return
	}

	result, err := h.service.Get(r.Context(), actor, userID)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrAccessDenied):
			h.logger.Warn("GET /users/{id}/wallet - Access denied: user_id=%d, actor=%d", userID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, wallet.ErrUserNotFound):
			handlers.RespondNotFound(w, msgUserNotFound)

		default:
			h.logger.Error("GET /users/{id}/wallet - Failed to get wallet: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
