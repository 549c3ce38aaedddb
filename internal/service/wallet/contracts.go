package wallet

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

// WalletRepository интерфейс репозитория кошельков
type WalletRepository interface {
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	Credit(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
	AddTransaction(ctx context.Context, t *domain.WalletTransaction) (*domain.WalletTransaction, error)
	ListTransactions(ctx context.Context, userID int64, limit int) ([]*domain.WalletTransaction, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
