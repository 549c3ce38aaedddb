package get_available_slots

import "errors"

var (
	// ErrInvalidRequest возвращается при некорректных входных данных
	ErrInvalidRequest = errors.New("get_available_slots: invalid request")

	// ErrMachineNotFound возвращается, когда машина не найдена
	ErrMachineNotFound = errors.New("get_available_slots: machine not found")

	// ErrMachineUnavailable возвращается, когда машина не принимает бронирования
	ErrMachineUnavailable = errors.New("get_available_slots: machine is not available")

	// ErrStorage возвращается при ошибках хранилища
	ErrStorage = errors.New("get_available_slots: storage error")
)
