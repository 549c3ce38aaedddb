package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxDurationMinutes int) error {
	if req.Actor.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidRequest)
	}

	if req.MachineID <= 0 {
		return fmt.Errorf("%w: machineID must be positive", ErrInvalidRequest)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidRequest)
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidRequest)
	}

	if req.DurationMinutes > maxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must not exceed %d", ErrInvalidRequest, maxDurationMinutes)
	}

	return nil
}

// validateNotInPast проверяет, что интервал начинается не раньше текущего момента
func validateNotInPast(start, now time.Time) error {
	if start.Before(now) {
		return fmt.Errorf("%w: startTime is in the past", ErrInvalidRequest)
	}
	return nil
}

// validateMachine переводит ошибки domain.Machine.CheckBooking в ошибки use case
func validateMachine(machine *domain.Machine, interval domain.Interval, loc *time.Location) error {
	err := machine.CheckBooking(interval, loc)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrMachineNotBookable):
		return fmt.Errorf("%w: %v", ErrMachineUnavailable, err)
	case errors.Is(err, domain.ErrOutsideWindow):
		return fmt.Errorf("%w: %v", ErrOutOfWindow, err)
	default:
		return fmt.Errorf("%w: invalid operating window: %v", ErrStorage, err)
	}
}
