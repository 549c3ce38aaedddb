package wallet

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrAccessDenied возвращается при попытке прочитать чужой кошелёк
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidAmount возвращается при неположительной или некорректной сумме
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
