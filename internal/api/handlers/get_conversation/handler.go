package get_conversation

import (
	"net/http"
	"strconv"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidLimit  = "некорректный limit"
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

// Handle GET /api/v1/messages/conversations/{userId}
// Query params: limit (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	otherID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		h.logger.Warn("GET /messages/conversations/{id} - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	actor, ok := handlers.MustActor(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
	}

	result, err := h.service.Conversation(r.Context(), actor, otherID, limit)
	if err != nil {
		h.logger.Error("GET /messages/conversations/{id} - Failed to get conversation: user_id=%d, error=%v",
			actor.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
