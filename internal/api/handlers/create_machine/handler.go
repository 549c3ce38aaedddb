package create_machine

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/service/machines"
	"github.com/m04kA/LaundryBookingService/internal/service/machines/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidMachine     = "некорректные параметры машины"
	msgHostelNotFound     = "общежитие не найдено"
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

// Handle POST /api/v1/machines
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMachineRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /machines - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, machines.ErrInvalidInput):
			h.logger.Warn("POST /machines - Invalid machine: %v", err)
			handlers.RespondBadRequest(w, msgInvalidMachine)

		case errors.Is(err, machines.ErrHostelNotFound):
			h.logger.Warn("POST /machines - Hostel not found: hostel_id=%d", req.HostelID)
			handlers.RespondNotFound(w, msgHostelNotFound)

		default:
			h.logger.Error("POST /machines - Failed to create machine: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /machines - Machine created: machine_id=%d, hostel_id=%d", result.ID, result.HostelID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
