package create_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest возвращается при некорректных входных данных
	ErrInvalidRequest = errors.New("create_booking: invalid request")

	// ErrOutOfWindow возвращается, когда интервал не помещается в окно работы машины
	ErrOutOfWindow = errors.New("create_booking: interval is outside the machine operating window")

	// ErrMachineUnavailable возвращается, когда машина не в статусе available
	ErrMachineUnavailable = errors.New("create_booking: machine is not available")

	// ErrMachineNotFound возвращается, когда машина не найдена
	ErrMachineNotFound = errors.New("create_booking: machine not found")

	// ErrUserNotFound возвращается, когда у пользователя нет кошелька
	ErrUserNotFound = errors.New("create_booking: user not found")

	// ErrConflict возвращается, когда интервал пересекается с существующим бронированием
	ErrConflict = errors.New("create_booking: interval conflicts with an existing reservation")

	// ErrInsufficientFunds возвращается, когда на кошельке недостаточно средств
	ErrInsufficientFunds = errors.New("create_booking: insufficient funds")

	// ErrStorage возвращается при ошибках хранилища; ничего не зафиксировано
	ErrStorage = errors.New("create_booking: storage error")
)

// ConflictError указывает бронирование, с которым пересёкся запрошенный интервал.
// errors.Is(err, ErrConflict) возвращает true.
type ConflictError struct {
	ReservationID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: reservation id=%d", ErrConflict.Error(), e.ReservationID)
}

// Is позволяет сравнивать ConflictError с ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
