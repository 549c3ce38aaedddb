package list_machines

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/service/machines"
	"github.com/m04kA/LaundryBookingService/internal/service/machines/models"
)

const msgInvalidFilter = "некорректные параметры фильтрации"

type Handler struct {
	service MachineService
	logger  Logger
}

func NewHandler(service MachineService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/machines
// Query params: hostelId, status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostelID, err := handlers.QueryInt64(r, "hostelId")
	if err != nil {
		h.logger.Warn("GET /machines - Invalid hostel ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.List(r.Context(), &models.ListMachinesRequest{
		HostelID: hostelID,
		Status:   handlers.QueryString(r, "status"),
	})
	if err != nil {
		switch {
		case errors.Is(err, machines.ErrInvalidInput):
			h.logger.Warn("GET /machines - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /machines - Failed to list machines: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
