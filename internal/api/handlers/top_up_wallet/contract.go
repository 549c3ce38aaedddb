package top_up_wallet

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/internal/service/wallet/models"
)

type WalletService interface {
	TopUp(ctx context.Context, actor domain.Actor, userID int64, req *models.TopUpRequest) (*models.TransactionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
