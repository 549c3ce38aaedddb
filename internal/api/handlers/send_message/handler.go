package send_message

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/service/messages"
	"github.com/m04kA/LaundryBookingService/internal/service/messages/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidMessage     = "сообщение должно содержать от 1 до 1000 символов"
	msgRecipientNotFound  = "получатель не найден"
	msgForbidden          = "студенты могут писать только персоналу"
)

type Handler struct {
	service MessageService
	logger  Logger
}

func NewHandler(service MessageService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/messages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.MustActor(w, r)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /messages - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Send(r.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, messages.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidMessage)

		case errors.Is(err, messages.ErrRecipientNotFound):
			handlers.RespondNotFound(w, msgRecipientNotFound)

		case errors.Is(err, messages.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /messages - Failed to send message: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}
