package machines

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/internal/integrations/eventbus"
)

// MachineRepository интерфейс репозитория машин
type MachineRepository interface {
	Create(ctx context.Context, m *domain.Machine) (*domain.Machine, error)
	GetByID(ctx context.Context, id int64) (*domain.Machine, error)
	LockByID(ctx context.Context, id int64) (*domain.Machine, error)
	List(ctx context.Context, filter domain.MachinesFilter) ([]*domain.Machine, error)
	UpdateStatus(ctx context.Context, id int64, status domain.MachineStatus, now time.Time) error
	SoftDelete(ctx context.Context, id int64, now time.Time) error
	AddStatusChange(ctx context.Context, change *domain.MachineStatusChange) (*domain.MachineStatusChange, error)
	ListStatusChanges(ctx context.Context, machineID int64, limit int) ([]*domain.MachineStatusChange, error)
}

// HostelRepository интерфейс репозитория общежитий
type HostelRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Hostel, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListFutureConfirmedByMachine(ctx context.Context, machineID int64, now time.Time) ([]*domain.Reservation, error)
	CountFutureConfirmedByMachine(ctx context.Context, machineID int64, now time.Time) (int, error)
	Cancel(ctx context.Context, id int64, cancelledBy *int64, reason domain.CancelReason, now time.Time) (*domain.Reservation, error)
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
