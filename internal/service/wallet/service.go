package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	walletRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/wallet"
	"github.com/m04kA/LaundryBookingService/internal/service/wallet/models"
)

// recentTransactions сколько последних операций отдаётся вместе с балансом
const recentTransactions = 20

// Service сервис для работы с кошельками пользователей
type Service struct {
	walletRepo WalletRepository
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса кошельков
func NewService(walletRepo WalletRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		walletRepo: walletRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// Get возвращает баланс и последние операции пользователя.
// Пользователь видит свой кошелёк, персонал - любой.
func (s *Service) Get(ctx context.Context, actor domain.Actor, userID int64) (*models.WalletResponse, error) {
	s.logger.Info("Get: fetching wallet of user=%d by user=%d", userID, actor.UserID)

	if !actor.CanAccessUser(userID) {
		s.logger.Warn("Get: access denied for user=%d to wallet of user=%d", actor.UserID, userID)
		return nil, ErrAccessDenied
	}

	var (
		balance      decimal.Decimal
		transactions []*domain.WalletTransaction
	)

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		balance, err = s.walletRepo.GetBalance(txCtx, userID)
		if err != nil {
			return err
		}
		transactions, err = s.walletRepo.ListTransactions(txCtx, userID, recentTransactions)
		return err
	})
	if err != nil {
		if errors.Is(err, walletRepo.ErrUserNotFound) {
			s.logger.Warn("Get: user id=%d not found", userID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("Get: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return &models.WalletResponse{
		UserID:       userID,
		Balance:      balance.StringFixed(2),
		Transactions: models.FromDomainTransactions(transactions),
	}, nil
}

// TopUp зачисляет положительную сумму на кошелёк пользователя и пишет строку журнала
func (s *Service) TopUp(ctx context.Context, actor domain.Actor, userID int64, req *models.TopUpRequest) (*models.TransactionResponse, error) {
	s.logger.Info("TopUp: user=%d tops up wallet of user=%d by %s", actor.UserID, userID, req.Amount)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		s.logger.Warn("TopUp: invalid amount=%q", req.Amount)
		return nil, ErrInvalidAmount
	}

	var transaction *domain.WalletTransaction

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		balance, err := s.walletRepo.Credit(txCtx, userID, amount)
		if err != nil {
			return err
		}

		transaction, err = s.walletRepo.AddTransaction(txCtx, &domain.WalletTransaction{
			UserID:       userID,
			Type:         domain.WalletTopUp,
			Amount:       amount,
			BalanceAfter: balance,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, walletRepo.ErrUserNotFound) {
			s.logger.Warn("TopUp: user id=%d not found", userID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("TopUp: transaction failed for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: TopUp - transaction: %v", ErrInternal, err)
	}

	s.logger.Info("TopUp: wallet of user=%d credited, balance=%s", userID, transaction.BalanceAfter.StringFixed(2))

	resp := models.FromDomainTransaction(transaction)
	return &resp, nil
}
