package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	checkAvailability "github.com/m04kA/LaundryBookingService/internal/usecase/check_availability"
)

const (
	msgInvalidMachineID   = "некорректный ID машины"
	msgInvalidParams      = "ожидаются параметры start (RFC3339) и durationMinutes"
	msgInvalidRequest     = "некорректные параметры запроса"
	msgOutOfWindow        = "интервал выходит за часы работы машины"
	msgMachineNotFound    = "машина не найдена"
	msgMachineUnavailable = "машина недоступна для бронирования"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/machines/{machineId}/availability
// Query params: start (required, RFC3339), durationMinutes (required)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	machineID, err := handlers.PathInt64(r, "machineId")
	if err != nil {
		h.logger.Warn("GET /machines/{id}/availability - Invalid machine ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMachineID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(machineID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /machines/{id}/availability - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrInvalidRequest):
			h.logger.Warn("GET /machines/{id}/availability - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, checkAvailability.ErrOutOfWindow):
			h.logger.Warn("GET /machines/{id}/availability - Out of window: %v", err)
			handlers.RespondBadRequest(w, msgOutOfWindow)

		case errors.Is(err, checkAvailability.ErrMachineNotFound):
			h.logger.Warn("GET /machines/{id}/availability - Machine not found: machine_id=%d", machineID)
			handlers.RespondNotFound(w, msgMachineNotFound)

		case errors.Is(err, checkAvailability.ErrMachineUnavailable):
			h.logger.Warn("GET /machines/{id}/availability - Machine unavailable: machine_id=%d", machineID)
			handlers.RespondError(w, http.StatusConflict, msgMachineUnavailable)

		default:
			h.logger.Error("GET /machines/{id}/availability - Failed to check availability: machine_id=%d, error=%v",
				machineID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
