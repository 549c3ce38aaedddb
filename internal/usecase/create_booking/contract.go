package create_booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/internal/integrations/eventbus"
)

// MachineRepository интерфейс репозитория машин
type MachineRepository interface {
	LockByID(ctx context.Context, id int64) (*domain.Machine, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	FindOverlapping(ctx context.Context, machineID int64, interval domain.Interval) (*domain.Reservation, error)
	AccessCodeInUse(ctx context.Context, machineID int64, code string) (bool, error)
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
}

// WalletRepository интерфейс репозитория кошельков
type WalletRepository interface {
	Debit(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
	AddTransaction(ctx context.Context, t *domain.WalletTransaction) (*domain.WalletTransaction, error)
}

// CodeGenerator генератор кодов доступа
type CodeGenerator interface {
	Generate() (string, error)
}

// EventPublisher публикует события бронирований после фиксации транзакции
type EventPublisher interface {
	PublishReservation(ctx context.Context, eventType eventbus.EventType, res *domain.Reservation)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
