package models

import (
	"time"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

// TopUpRequest запрос на пополнение кошелька
type TopUpRequest struct {
	Amount string `json:"amount"` // "150.00"
}

// TransactionResponse строка журнала операций
type TransactionResponse struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	BalanceAfter  string    `json:"balanceAfter"`
	ReservationID *int64    `json:"reservationId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// WalletResponse баланс и последние операции
type WalletResponse struct {
	UserID       int64                 `json:"userId"`
	Balance      string                `json:"balance"`
	Transactions []TransactionResponse `json:"transactions"`
}

// FromDomainTransaction конвертирует строку журнала в DTO
func FromDomainTransaction(t *domain.WalletTransaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		Type:          string(t.Type),
		Amount:        t.Amount.StringFixed(2),
		BalanceAfter:  t.BalanceAfter.StringFixed(2),
		ReservationID: t.ReservationID,
		CreatedAt:     t.CreatedAt,
	}
}

// FromDomainTransactions конвертирует список строк журнала в DTO
func FromDomainTransactions(transactions []*domain.WalletTransaction) []TransactionResponse {
	resp := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		resp = append(resp, FromDomainTransaction(t))
	}
	return resp
}
