package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/pkg/dbmetrics"
	"github.com/m04kA/LaundryBookingService/pkg/pgerrors"
	"github.com/m04kA/LaundryBookingService/pkg/psqlbuilder"
)

const tableName = "reservations"

var columns = []string{
	"id",
	"user_id",
	"machine_id",
	"start_time",
	"duration_minutes",
	"end_time",
	"amount",
	"status",
	"access_code",
	"completed_at",
	"cancelled_at",
	"cancelled_by",
	"cancel_reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями машин
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование.
// Нарушение exclusion constraint (пересечение интервалов) возвращается как ErrOverlap.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"user_id",
			"machine_id",
			"start_time",
			"duration_minutes",
			"end_time",
			"amount",
			"status",
			"access_code",
		).
		Values(
			res.UserID,
			res.MachineID,
			res.StartTime,
			res.DurationMinutes,
			res.EndTime,
			res.Amount,
			res.Status,
			res.AccessCode,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&res.CreatedAt,
		&res.UpdatedAt,
	)

	if err != nil {
		return nil, mapInsertError(err)
	}

	return res, nil
}

// mapInsertError переводит ошибки ограничений PostgreSQL при вставке в ошибки репозитория
func mapInsertError(err error) error {
	switch pgerrors.Code(err) {
	case pgerrors.ExclusionViolation:
		return ErrOverlap
	case pgerrors.UniqueViolation:
		return ErrDuplicateAccessCode
	}
	return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id}, false)
}

// LockByID получает бронирование по ID и блокирует строку до конца транзакции
func (r *Repository) LockByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.getOne(ctx, "LockByID", squirrel.Eq{"id": id}, true)
}

// FindOverlapping возвращает самое раннее неотменённое бронирование машины,
// пересекающееся с interval. Если пересечений нет, возвращает ErrReservationNotFound.
//
// Интервалы полуоткрытые: бронирование, заканчивающееся ровно в interval.Start, не пересекается.
func (r *Repository) FindOverlapping(ctx context.Context, machineID int64, interval domain.Interval) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"machine_id": machineID}).
		Where(squirrel.NotEq{"status": domain.ReservationCancelled}).
		Where(squirrel.Lt{"start_time": interval.End}).
		Where(squirrel.Gt{"end_time": interval.Start}).
		OrderBy("start_time ASC", "id ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// ListOccupying возвращает неотменённые бронирования машины, пересекающиеся с window,
// отсортированные по времени начала
func (r *Repository) ListOccupying(ctx context.Context, machineID int64, window domain.Interval) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"machine_id": machineID}).
		Where(squirrel.Eq{"status": domain.StatusStrings(domain.OccupyingStatuses)}).
		Where(squirrel.Lt{"start_time": window.End}).
		Where(squirrel.Gt{"end_time": window.Start}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOccupying - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListOccupying", query, args)
}

// List возвращает бронирования по фильтру, сначала новые
func (r *Repository) List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		OrderBy("start_time DESC", "id DESC")

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.MachineID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"machine_id": *filter.MachineID})
	}
	if filter.HostelID != nil {
		selectBuilder = selectBuilder.Where(
			squirrel.Expr("machine_id IN (SELECT id FROM machines WHERE hostel_id = ?)", *filter.HostelID),
		)
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.To})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "List", query, args)
}

// FindActiveByCode находит подтверждённое бронирование машины с кодом code, активное в момент now
func (r *Repository) FindActiveByCode(ctx context.Context, machineID int64, code string, now time.Time) (*domain.Reservation, error) {
	return r.getOne(ctx, "FindActiveByCode", squirrel.And{
		squirrel.Eq{"machine_id": machineID},
		squirrel.Eq{"access_code": code},
		squirrel.Eq{"status": domain.ReservationConfirmed},
		squirrel.LtOrEq{"start_time": now},
		squirrel.Gt{"end_time": now},
	}, false)
}

// AccessCodeInUse проверяет, занят ли код подтверждённым бронированием этой машины
func (r *Repository) AccessCodeInUse(ctx context.Context, machineID int64, code string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(tableName).
		Where(squirrel.Eq{"machine_id": machineID}).
		Where(squirrel.Eq{"access_code": code}).
		Where(squirrel.Eq{"status": domain.ReservationConfirmed}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: AccessCodeInUse - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: AccessCodeInUse - scan: %v", ErrScanRow, err)
	}

	return exists, nil
}

// ListFutureConfirmedByMachine возвращает подтверждённые бронирования машины, которые ещё не закончились,
// с блокировкой строк (вызывать внутри транзакции)
func (r *Repository) ListFutureConfirmedByMachine(ctx context.Context, machineID int64, now time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"machine_id": machineID}).
		Where(squirrel.Eq{"status": domain.ReservationConfirmed}).
		Where(squirrel.Gt{"end_time": now}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListFutureConfirmedByMachine - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListFutureConfirmedByMachine", query, args)
}

// CountFutureConfirmedByMachine считает подтверждённые бронирования машины, которые ещё не закончились
func (r *Repository) CountFutureConfirmedByMachine(ctx context.Context, machineID int64, now time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{"machine_id": machineID}).
		Where(squirrel.Eq{"status": domain.ReservationConfirmed}).
		Where(squirrel.Gt{"end_time": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountFutureConfirmedByMachine - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountFutureConfirmedByMachine - scan: %v", ErrScanRow, err)
	}

	return count, nil
}

// Complete переводит бронирование из confirmed в completed.
// Если бронирование не в статусе confirmed (или не существует), возвращает ErrStatusMismatch.
func (r *Repository) Complete(ctx context.Context, id int64, now time.Time) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", domain.ReservationCompleted).
		Set("completed_at", now).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.ReservationConfirmed}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Complete - build update query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusMismatch
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Complete - execute update: %v", ErrExecQuery, err)
	}

	return res, nil
}

// Cancel переводит бронирование из confirmed в cancelled.
// cancelledBy = nil означает отмену системой.
func (r *Repository) Cancel(ctx context.Context, id int64, cancelledBy *int64, reason domain.CancelReason, now time.Time) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", domain.ReservationCancelled).
		Set("cancelled_at", now).
		Set("cancelled_by", cancelledBy).
		Set("cancel_reason", reason).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.ReservationConfirmed}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusMismatch
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	return res, nil
}

// StatsByUser считает агрегаты по бронированиям пользователя на момент now
func (r *Repository) StatsByUser(ctx context.Context, userID int64, now time.Time) (*domain.ReservationStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status = 'completed')",
		"COUNT(*) FILTER (WHERE status = 'cancelled')",
		"COALESCE(SUM(duration_minutes) FILTER (WHERE status = 'completed'), 0)",
		"COALESCE(SUM(amount) FILTER (WHERE status = 'completed'), 0)",
	).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = 'confirmed' AND start_time > ?)", now)).
		From(tableName).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: StatsByUser - build select query: %v", ErrBuildQuery, err)
	}

	var (
		stats       domain.ReservationStats
		amountSpent decimal.Decimal
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.Total,
		&stats.Completed,
		&stats.Cancelled,
		&stats.MinutesUsed,
		&amountSpent,
		&stats.Upcoming,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: StatsByUser - scan: %v", ErrScanRow, err)
	}

	stats.AmountSpent = amountSpent
	return &stats, nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer, forUpdate bool) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(where)

	if forUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan reservation: %v", ErrScanRow, op, err)
	}

	return res, nil
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Reservation, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return reservations, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res          domain.Reservation
		cancelReason sql.NullString
	)

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.MachineID,
		&res.StartTime,
		&res.DurationMinutes,
		&res.EndTime,
		&res.Amount,
		&res.Status,
		&res.AccessCode,
		&res.CompletedAt,
		&res.CancelledAt,
		&res.CancelledBy,
		&cancelReason,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelReason.Valid {
		reason := domain.CancelReason(cancelReason.String)
		res.CancelReason = &reason
	}

	return &res, nil
}

func joinColumns() string {
	return strings.Join(columns, ", ")
}
