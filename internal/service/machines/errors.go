package machines

import "errors"

var (
	// ErrMachineNotFound возвращается, когда машина не найдена или удалена
	ErrMachineNotFound = errors.New("machine not found")

	// ErrHostelNotFound возвращается, когда общежитие не найдено
	ErrHostelNotFound = errors.New("hostel not found")

	// ErrHasActiveBookings возвращается при удалении машины с предстоящими бронированиями
	ErrHasActiveBookings = errors.New("machine has active bookings")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
