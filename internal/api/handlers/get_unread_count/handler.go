package get_unread_count

import (
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
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

// Handle GET /api/v1/messages/unread-count
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.MustActor(w, r)
	if !ok {
		return
	}

	result, err := h.service.UnreadCount(r.Context(), actor)
	if err != nil {
		h.logger.Error("GET /messages/unread-count - Failed to count unread: user_id=%d, error=%v", actor.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
