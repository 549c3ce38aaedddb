package top_up_wallet

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/service/wallet"
	"github.com/m04kA/LaundryBookingService/internal/service/wallet/models"
)

const (
	msgInvalidUserID      = "некорректный ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidAmount      = "сумма должна быть положительной, не более двух знаков после запятой"
	msgUserNotFound       = "пользователь не найден"
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

// Handle POST /api/v1/users/{userId}/wallet/top-up
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		h.logger.Warn("POST /users/{id}/wallet/top-up - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	actor, ok := handlers.MustActor(w, r)
	if !ok {
		return
	}

	var req models.TopUpRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /users/{id}/wallet/top-up - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.TopUp(r.Context(), actor, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidAmount):
			handlers.RespondBadRequest(w, msgInvalidAmount)

		case errors.Is(err, wallet.ErrUserNotFound):
			handlers.RespondNotFound(w, msgUserNotFound)

		default:
			h.logger.Error("POST /users/{id}/wallet/top-up - Failed to top up: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /users/{id}/wallet/top-up - Wallet topped up: user_id=%d, by=%d", userID, actor.UserID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
