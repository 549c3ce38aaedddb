package check_availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxDurationMinutes int) error {
	if req.MachineID <= 0 {
		return fmt.Errorf("%w: machineID must be positive", ErrInvalidRequest)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidRequest)
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidRequest)
	}

	if maxDurationMinutes > 0 && req.DurationMinutes > maxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must not exceed %d", ErrInvalidRequest, maxDurationMinutes)
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
