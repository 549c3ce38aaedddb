package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletTransactionType kind of wallet movement
type WalletTransactionType string

const (
	WalletBookingDebit WalletTransactionType = "booking_debit"
	WalletRefund       WalletTransactionType = "refund"
	WalletTopUp        WalletTransactionType = "top_up"
)

// WalletTransaction is a ledger row. Amount is signed: debits are negative.
type WalletTransaction struct {
	ID            int64
	UserID        int64
	Type          WalletTransactionType
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	ReservationID *int64
	CreatedAt     time.Time
}
