package get_available_slots

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.MachineID <= 0 {
		return fmt.Errorf("%w: machineID must be positive", ErrInvalidRequest)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidRequest)
	}

	return nil
}
