package bookings

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/internal/integrations/eventbus"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	LockByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	FindActiveByCode(ctx context.Context, machineID int64, code string, now time.Time) (*domain.Reservation, error)
	Complete(ctx context.Context, id int64, now time.Time) (*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, cancelledBy *int64, reason domain.CancelReason, now time.Time) (*domain.Reservation, error)
	StatsByUser(ctx context.Context, userID int64, now time.Time) (*domain.ReservationStats, error)
}

// WalletRepository интерфейс репозитория кошельков
type WalletRepository interface {
	Credit(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
	AddTransaction(ctx context.Context, t *domain.WalletTransaction) (*domain.WalletTransaction, error)
}

// EventPublisher публикует события жизненного цикла бронирований
type EventPublisher interface {
	PublishReservation(ctx context.Context, eventType eventbus.EventType, res *domain.Reservation)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
