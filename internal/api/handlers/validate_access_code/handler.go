package validate_access_code

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/service/bookings"
	"github.com/m04kA/LaundryBookingService/pkg/accesscode"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidCode        = "недействительный код доступа"
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

// Handle POST /api/v1/bookings/validate-code
// Неверный код, чужое время и отменённое бронирование неразличимы для клиента.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ValidateCodeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.MachineID <= 0 {
		h.logger.Warn("POST /bookings/validate-code - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Код заведомо неверного формата не может совпасть ни с одним бронированием
	if !accesscode.IsValid(req.AccessCode) {
		h.logger.Warn("POST /bookings/validate-code - Malformed code: machine_id=%d", req.MachineID)
		handlers.RespondNotFound(w, msgInvalidCode)
		return
	}

	result, err := h.service.ValidateCode(r.Context(), req.MachineID, req.AccessCode)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/validate-code - Code rejected: machine_id=%d", req.MachineID)
			handlers.RespondNotFound(w, msgInvalidCode)

		default:
			h.logger.Error("POST /bookings/validate-code - Failed to validate code: machine_id=%d, error=%v",
				req.MachineID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/validate-code - Code accepted: booking_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
