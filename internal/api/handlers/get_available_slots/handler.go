package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/LaundryBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidMachineID   = "некорректный ID машины"
	msgInvalidRequest     = "некорректные параметры запроса"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMachineNotFound    = "машина не найдена"
	msgMachineUnavailable = "машина недоступна для бронирования"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/machines/{machineId}/available-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	machineID, err := handlers.PathInt64(r, "machineId")
	if err != nil {
		h.logger.Warn("GET /machines/{id}/available-slots - Invalid machine ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMachineID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /machines/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(machineID, dateStr)
	if err != nil {
		h.logger.Warn("GET /machines/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidRequest):
			h.logger.Warn("GET /machines/{id}/available-slots - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, getAvailableSlots.ErrMachineNotFound):
			h.logger.Warn("GET /machines/{id}/available-slots - Machine not found: machine_id=%d", machineID)
			handlers.RespondNotFound(w, msgMachineNotFound)

		case errors.Is(err, getAvailableSlots.ErrMachineUnavailable):
			h.logger.Warn("GET /machines/{id}/available-slots - Machine unavailable: machine_id=%d", machineID)
			handlers.RespondError(w, http.StatusConflict, msgMachineUnavailable)

		default:
			h.logger.Error("GET /machines/{id}/available-slots - Failed to get slots: machine_id=%d, error=%v",
				machineID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /machines/{id}/available-slots - Slots retrieved: machine_id=%d, date=%s, free=%d, busy=%d",
		machineID, dateStr, len(result.Free), len(result.Busy))
	handlers.RespondJSON(w, http.StatusOK, response)
}
