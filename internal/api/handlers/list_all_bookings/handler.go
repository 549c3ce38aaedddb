package list_all_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/service/bookings"
)

const (
	msgInvalidFilter = "некорректные параметры фильтрации"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/bookings/all
// Query params: machineId, hostelId, status, date, limit, offset (все опциональны)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.MustActor(w, r)
	if !ok {
		return
	}

	serviceReq, err := ToServiceRequest(r)
	if err != nil {
		h.logger.Warn("GET /bookings/all - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.ListAll(r.Context(), actor, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings/all - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/all - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings/all - Failed to list bookings: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/all - Bookings retrieved: count=%d", len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
