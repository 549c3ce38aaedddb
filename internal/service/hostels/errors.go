package hostels

import "errors"

var (
	// ErrHostelNotFound возвращается, когда общежитие не найдено
	ErrHostelNotFound = errors.New("hostel not found")

	// ErrDuplicateName возвращается, когда общежитие с таким именем уже есть
	ErrDuplicateName = errors.New("hostel name already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
