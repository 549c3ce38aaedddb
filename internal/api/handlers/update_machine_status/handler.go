package update_machine_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/service/machines"
	"github.com/m04kA/LaundryBookingService/internal/service/machines/models"
)

const (
	msgInvalidMachineID   = "некорректный ID машины"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "некорректный статус машины"
	msgMachineNotFound    = "машина не найдена"
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

// Handle PATCH /api/v1/machines/{machineId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	machineID, err := handlers.PathInt64(r, "machineId")
	if err != nil {
		h.logger.Warn("PATCH /machines/{id}/status - Invalid machine ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMachineID)
		return
	}

	actor, ok := handlers.MustActor(w, r)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /machines/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateStatus(r.Context(), actor, machineID, &req)
	if err != nil {
		switch {
		case errors.Is(err, machines.ErrInvalidInput):
			h.logger.Warn("PATCH /machines/{id}/status - Invalid status: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, machines.ErrMachineNotFound):
			h.logger.Warn("PATCH /machines/{id}/status - Machine not found: machine_id=%d", machineID)
			handlers.RespondNotFound(w, msgMachineNotFound)

		default:
			h.logger.Error("PATCH /machines/{id}/status - Failed to update status: machine_id=%d, error=%v",
				machineID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /machines/{id}/status - Status updated: machine_id=%d, status=%s, cancelled=%d",
		machineID, req.Status, len(result.CancelledBookingIDs))
	handlers.RespondJSON(w, http.StatusOK, result)
}
