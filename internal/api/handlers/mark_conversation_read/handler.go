package mark_conversation_read

import (
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
)

const msgInvalidUserID = "некорректный ID пользователя"

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

// Handle PATCH /api/v1/messages/conversations/{userId}/read
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	senderID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		h.logger.Warn("PATCH /messages/conversations/{id}/read - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	actor, ok := handlers.MustActor(w, r)
	if !ok {
		return
	}

	result, err := h.service.MarkRead(r.Context(), actor, senderID)
	if err != nil {
		h.logger.Error("PATCH /messages/conversations/{id}/read - Failed to mark read: user_id=%d, error=%v",
			actor.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
