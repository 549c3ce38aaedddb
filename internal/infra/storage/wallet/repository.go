package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/pkg/dbmetrics"
	"github.com/m04kA/LaundryBookingService/pkg/pgerrors"
	"github.com/m04kA/LaundryBookingService/pkg/psqlbuilder"
)

// Repository репозиторий кошельков и журнала операций
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кошельков
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBalance возвращает текущий баланс пользователя
func (r *Repository) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("wallet_balance").
		From("users").
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: GetBalance - build select query: %v", ErrBuildQuery, err)
	}

	var balance decimal.Decimal
	err = executor.QueryRowContext(ctx, query, args...).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: GetBalance - scan: %v", ErrScanRow, err)
	}

	return balance, nil
}

// Debit списывает amount с баланса одним условным UPDATE.
// Баланс не может уйти в минус: при нехватке средств возвращается ErrInsufficientFunds.
func (r *Repository) Debit(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("users").
		Set("wallet_balance", squirrel.Expr("wallet_balance - ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		Where(squirrel.GtOrEq{"wallet_balance": amount}).
		Suffix("RETURNING wallet_balance").
		ToSql()

	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: Debit - build update query: %v", ErrBuildQuery, err)
	}

	var balance decimal.Decimal
	err = executor.QueryRowContext(ctx, query, args...).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		// Строка не обновилась: либо пользователя нет, либо не хватает средств
		if _, getErr := r.GetBalance(ctx, userID); getErr != nil {
			return decimal.Zero, getErr
		}
		return decimal.Zero, ErrInsufficientFunds
	}
	if err != nil {
		if pgerrors.Is(err, pgerrors.CheckViolation) {
			return decimal.Zero, ErrInsufficientFunds
		}
		return decimal.Zero, fmt.Errorf("%w: Debit - execute update: %v", ErrExecQuery, err)
	}

	return balance, nil
}

// Credit зачисляет amount на баланс
func (r *Repository) Credit(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("users").
		Set("wallet_balance", squirrel.Expr("wallet_balance + ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		Suffix("RETURNING wallet_balance").
		ToSql()

	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: Credit - build update query: %v", ErrBuildQuery, err)
	}

	var balance decimal.Decimal
	err = executor.QueryRowContext(ctx, query, args...).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: Credit - execute update: %v", ErrExecQuery, err)
	}

	return balance, nil
}

// AddTransaction записывает строку журнала операций
func (r *Repository) AddTransaction(ctx context.Context, t *domain.WalletTransaction) (*domain.WalletTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("wallet_transactions").
		Columns("user_id", "type", "amount", "balance_after", "reservation_id").
		Values(t.UserID, t.Type, t.Amount, t.BalanceAfter, t.ReservationID).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddTransaction - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: AddTransaction - execute insert: %v", ErrExecQuery, err)
	}

	return t, nil
}

// ListTransactions возвращает последние операции пользователя, сначала новые
func (r *Repository) ListTransactions(ctx context.Context, userID int64, limit int) ([]*domain.WalletTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "user_id", "type", "amount", "balance_after", "reservation_id", "created_at").
		From("wallet_transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTransactions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTransactions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	transactions := make([]*domain.WalletTransaction, 0)
	for rows.Next() {
		var t domain.WalletTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.BalanceAfter, &t.ReservationID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListTransactions - scan row: %v", ErrScanRow, err)
		}
		transactions = append(transactions, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTransactions - rows error: %v", ErrScanRow, err)
	}

	return transactions, nil
}
