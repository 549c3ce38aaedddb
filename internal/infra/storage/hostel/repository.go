package hostel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/pkg/dbmetrics"
	"github.com/m04kA/LaundryBookingService/pkg/pgerrors"
	"github.com/m04kA/LaundryBookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с общежитиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория общежитий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает общежитие
func (r *Repository) Create(ctx context.Context, h *domain.Hostel) (*domain.Hostel, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("hostels").
		Columns("name", "address").
		Values(h.Name, h.Address).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if pgerrors.Is(err, pgerrors.UniqueViolation) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return h, nil
}

// GetByID получает общежитие по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Hostel, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "address", "created_at", "updated_at").
		From("hostels").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var h domain.Hostel
	err = executor.QueryRowContext(ctx, query, args...).Scan(&h.ID, &h.Name, &h.Address, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHostelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan hostel: %v", ErrScanRow, err)
	}

	return &h, nil
}

// List возвращает все общежития по имени
func (r *Repository) List(ctx context.Context) ([]*domain.Hostel, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "address", "created_at", "updated_at").
		From("hostels").
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hostels := make([]*domain.Hostel, 0)
	for rows.Next() {
		var h domain.Hostel
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		hostels = append(hostels, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return hostels, nil
}
