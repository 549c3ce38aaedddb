package check_availability

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

// MachineRepository интерфейс репозитория машин
type MachineRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Machine, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	FindOverlapping(ctx context.Context, machineID int64, interval domain.Interval) (*domain.Reservation, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
