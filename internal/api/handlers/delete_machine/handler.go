package delete_machine

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/service/machines"
)

const (
	msgInvalidMachineID = "некорректный ID машины"
	msgMachineNotFound  = "машина не найдена"
	msgHasBookings      = "у машины есть предстоящие бронирования"
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

// Handle DELETE /api/v1/machines/{machineId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	machineID, err := handlers.PathInt64(r, "machineId")
	if err != nil {
		h.logger.Warn("DELETE /machines/{id} - Invalid machine ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMachineID)
		return
	}

	if err := h.service.Delete(r.Context(), machineID); err != nil {
		switch {
		case errors.Is(err, machines.ErrMachineNotFound):
			handlers.RespondNotFound(w, msgMachineNotFound)

		case errors.Is(err, machines.ErrHasActiveBookings):
			h.logger.Warn("DELETE /machines/{id} - Machine has bookings: machine_id=%d", machineID)
			handlers.RespondError(w, http.StatusConflict, msgHasBookings)

		default:
			h.logger.Error("DELETE /machines/{id} - Failed to delete machine: machine_id=%d, error=%v", machineID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /machines/{id} - Machine deleted: machine_id=%d", machineID)
	w.WriteHeader(http.StatusNoContent)
}
