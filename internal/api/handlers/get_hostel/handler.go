package get_hostel

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/service/hostels"
)

const (
	msgInvalidHostelID = "некорректный ID общежития"
	msgHostelNotFound  = "общежитие не найдено"
)

type Handler struct {
	service HostelService
	logger  Logger
}

func NewHandler(service HostelService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/hostels/{hostelId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostelID, err := handlers.PathInt64(r, "hostelId")
	if err != nil {
		h.logger.Warn("GET /hostels/{id} - Invalid hostel ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHostelID)
		return
	}

	result, err := h.service.GetByID(r.Context(), hostelID)
	if err != nil {
		switch {
		case errors.Is(err, hostels.ErrHostelNotFound):
			handlers.RespondNotFound(w, msgHostelNotFound)

		default:
			h.logger.Error("GET /hostels/{id} - Failed to get hostel: hostel_id=%d, error=%v", hostelID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
