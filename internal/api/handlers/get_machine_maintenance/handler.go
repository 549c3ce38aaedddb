package get_machine_maintenance

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/service/machines"
)

const (
	msgInvalidMachineID = "некорректный ID машины"
	msgMachineNotFound  = "машина не найдена"
)

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

// Handle GET /api/v1/machines/{machineId}/maintenance
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	machineID, err := handlers.PathInt64(r, "machineId")
	if err != nil {
		h.logger.Warn("GET /machines/{id}/maintenance - Invalid machine ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMachineID)
		return
	}

	result, err := h.service.MaintenanceHistory(r.Context(), machineID)
	if err != nil {
		switch {
		case errors.Is(err, machines.ErrMachineNotFound):
			handlers.RespondNotFound(w, msgMachineNotFound)

		default:
			h.logger.Error("GET /machines/{id}/maintenance - Failed to get history: machine_id=%d, error=%v",
				machineID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
