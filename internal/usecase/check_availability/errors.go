package check_availability

import "errors"

var (
	// ErrInvalidRequest возвращается при некорректных входных данных
	ErrInvalidRequest = errors.New("check_availability: invalid request")

	// ErrOutOfWindow возвращается, когда интервал не помещается в окно работы машины
	ErrOutOfWindow = errors.New("check_availability: interval is outside the machine operating window")

	// ErrMachineNotFound возвращается, когда машина не найдена
	ErrMachineNotFound = errors.New("check_availability: machine not found")

	// ErrMachineUnavailable возвращается, когда машина не в статусе available
	ErrMachineUnavailable = errors.New("check_availability: machine is not available")

	// ErrStorage возвращается при ошибках хранилища
	ErrStorage = errors.New("check_availability: storage error")
)
