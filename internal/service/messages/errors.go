package messages

import "errors"

var (
	// ErrRecipientNotFound возвращается, когда получатель не найден
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrAccessDenied возвращается, когда студент пишет не сотруднику
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
