package get_booking_stats

import (
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.MustActor(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), actor)
	if err != nil {
		h.logger.Error("GET /bookings/stats - Failed to get stats: user_id=%d, error=%v", actor.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}
