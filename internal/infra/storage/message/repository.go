package message

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/pkg/dbmetrics"
	"github.com/m04kA/LaundryBookingService/pkg/pgerrors"
	"github.com/m04kA/LaundryBookingService/pkg/psqlbuilder"
)

// Repository репозиторий личных сообщений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сообщений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет сообщение
func (r *Repository) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("messages").
		Columns("sender_id", "recipient_id", "content").
		Values(m.SenderID, m.RecipientID, m.Content).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		if pgerrors.Is(err, pgerrors.ForeignKeyViolation) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return m, nil
}

// ListConversation возвращает переписку двух пользователей в хронологическом порядке
// (последние limit сообщений)
func (r *Repository) ListConversation(ctx context.Context, userID, otherID int64, limit int) ([]*domain.Message, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inner := psqlbuilder.Select("id", "sender_id", "recipient_id", "content", "read_at", "created_at").
		From("messages").
		Where(squirrel.Or{
			squirrel.Eq{"sender_id": userID, "recipient_id": otherID},
			squirrel.Eq{"sender_id": otherID, "recipient_id": userID},
		}).
		OrderBy("created_at DESC", "id DESC")

	if limit > 0 {
		inner = inner.Limit(uint64(limit))
	}

	query, args, err := psqlbuilder.Select("*").
		FromSelect(inner, "conversation").
		OrderBy("created_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListConversation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListConversation - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListConversation - scan row: %v", ErrScanRow, err)
		}
		messages = append(messages, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListConversation - rows error: %v", ErrScanRow, err)
	}

	return messages, nil
}

// MarkConversationRead помечает прочитанными сообщения от senderID к readerID
func (r *Repository) MarkConversationRead(ctx context.Context, readerID, senderID int64, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("messages").
		Set("read_at", now).
		Where(squirrel.Eq{"recipient_id": readerID, "sender_id": senderID, "read_at": nil}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MarkConversationRead - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: MarkConversationRead - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkConversationRead - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// CountUnread считает непрочитанные сообщения пользователя
func (r *Repository) CountUnread(ctx context.Context, userID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("messages").
		Where(squirrel.Eq{"recipient_id": userID, "read_at": nil}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountUnread - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountUnread - scan: %v", ErrScanRow, err)
	}

	return count, nil
}
