package machine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/pkg/dbmetrics"
	"github.com/m04kA/LaundryBookingService/pkg/pgerrors"
	"github.com/m04kA/LaundryBookingService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"hostel_id",
	"name",
	"status",
	"cycle_minutes",
	"cost_per_cycle",
	"open_time",
	"close_time",
	"deleted_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с машинами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория машин
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую машину
func (r *Repository) Create(ctx context.Context, m *domain.Machine) (*domain.Machine, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("machines").
		Columns(
			"hostel_id",
			"name",
			"status",
			"cycle_minutes",
			"cost_per_cycle",
			"open_time",
			"close_time",
		).
		Values(
			m.HostelID,
			m.Name,
			m.Status,
			m.CycleMinutes,
			m.CostPerCycle,
			m.OpenTime,
			m.CloseTime,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if pgerrors.Is(err, pgerrors.ForeignKeyViolation) {
			return nil, ErrHostelNotFound
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return m, nil
}

// GetByID получает машину по ID (удалённые машины не возвращаются)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Machine, error) {
	return r.getOne(ctx, "GetByID", id, false)
}

// LockByID получает машину по ID и блокирует строку до конца транзакции.
// Блокировка строки машины сериализует создание бронирований на одну машину.
func (r *Repository) LockByID(ctx context.Context, id int64) (*domain.Machine, error) {
	return r.getOne(ctx, "LockByID", id, true)
}

// List возвращает машины по фильтру
func (r *Repository) List(ctx context.Context, filter domain.MachinesFilter) ([]*domain.Machine, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("machines").
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy("hostel_id ASC", "name ASC", "id ASC")

	if filter.HostelID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"hostel_id": *filter.HostelID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	machines := make([]*domain.Machine, 0)
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		machines = append(machines, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return machines, nil
}

// UpdateStatus обновляет статус машины
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.MachineStatus, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("machines").
		Set("status", status).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "UpdateStatus", query, args)
}

// SoftDelete помечает машину удалённой
func (r *Repository) SoftDelete(ctx context.Context, id int64, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("machines").
		Set("deleted_at", now).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDelete - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "SoftDelete", query, args)
}

// AddStatusChange записывает строку истории статусов
func (r *Repository) AddStatusChange(ctx context.Context, change *domain.MachineStatusChange) (*domain.MachineStatusChange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("machine_status_history").
		Columns("machine_id", "from_status", "to_status", "changed_by", "note", "cancelled_reservations").
		Values(change.MachineID, change.FromStatus, change.ToStatus, change.ChangedBy, change.Note, change.CancelledReservations).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddStatusChange - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&change.ID, &change.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: AddStatusChange - execute insert: %v", ErrExecQuery, err)
	}

	return change, nil
}

// ListStatusChanges возвращает историю статусов машины, сначала новые
func (r *Repository) ListStatusChanges(ctx context.Context, machineID int64, limit int) ([]*domain.MachineStatusChange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"machine_id",
		"from_status",
		"to_status",
		"changed_by",
		"note",
		"cancelled_reservations",
		"created_at",
	).
		From("machine_status_history").
		Where(squirrel.Eq{"machine_id": machineID}).
		OrderBy("created_at DESC", "id DESC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStatusChanges - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStatusChanges - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	changes := make([]*domain.MachineStatusChange, 0)
	for rows.Next() {
		var c domain.MachineStatusChange
		err := rows.Scan(
			&c.ID,
			&c.MachineID,
			&c.FromStatus,
			&c.ToStatus,
			&c.ChangedBy,
			&c.Note,
			&c.CancelledReservations,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListStatusChanges - scan row: %v", ErrScanRow, err)
		}
		changes = append(changes, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStatusChanges - rows error: %v", ErrScanRow, err)
	}

	return changes, nil
}

func (r *Repository) getOne(ctx context.Context, op string, id int64, forUpdate bool) (*domain.Machine, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("machines").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil})

	if forUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	m, err := scanMachine(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMachineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan machine: %v", ErrScanRow, op, err)
	}

	return m, nil
}

func (r *Repository) execOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrMachineNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMachine(row rowScanner) (*domain.Machine, error) {
	var m domain.Machine

	err := row.Scan(
		&m.ID,
		&m.HostelID,
		&m.Name,
		&m.Status,
		&m.CycleMinutes,
		&m.CostPerCycle,
		&m.OpenTime,
		&m.CloseTime,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}
