package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	createBooking "github.com/m04kA/LaundryBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartTime   = "некорректный формат времени начала, ожидается RFC3339"
	msgInvalidRequest     = "некорректные параметры бронирования"
	msgOutOfWindow        = "интервал выходит за часы работы машины"
	msgMachineNotFound    = "машина не найдена"
	msgMachineUnavailable = "машина недоступна для бронирования"
	msgUserNotFound       = "пользователь не найден"
	msgConflict           = "выбранный интервал уже занят"
	msgInsufficientFunds  = "недостаточно средств на кошельке"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.MustActor(w, r)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *createBooking.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("POST /bookings - Interval taken: machine_id=%d, conflicting_id=%d",
				req.MachineID, conflict.ReservationID)
			handlers.RespondConflict(w, msgConflict, conflict.ReservationID)

		case errors.Is(err, createBooking.ErrInvalidRequest):
			h.logger.Warn("POST /bookings - Invalid request: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, createBooking.ErrOutOfWindow):
			h.logger.Warn("POST /bookings - Out of window: machine_id=%d", req.MachineID)
			handlers.RespondBadRequest(w, msgOutOfWindow)

		case errors.Is(err, createBooking.ErrMachineNotFound):
			h.logger.Warn("POST /bookings - Machine not found: machine_id=%d", req.MachineID)
			handlers.RespondNotFound(w, msgMachineNotFound)

		case errors.Is(err, createBooking.ErrMachineUnavailable):
			h.logger.Warn("POST /bookings - Machine unavailable: machine_id=%d", req.MachineID)
			handlers.RespondError(w, http.StatusConflict, msgMachineUnavailable)

		case errors.Is(err, createBooking.ErrUserNotFound):
			h.logger.Warn("POST /bookings - User not found: user_id=%d", actor.UserID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, createBooking.ErrInsufficientFunds):
			h.logger.Warn("POST /bookings - Insufficient funds: user_id=%d", actor.UserID)
			handlers.RespondPaymentRequired(w, msgInsufficientFunds)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, machine_id=%d, error=%v",
				actor.UserID, req.MachineID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, user_id=%d, machine_id=%d",
		result.ID, actor.UserID, req.MachineID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
