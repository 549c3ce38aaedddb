package messages

import (
	"context"
	"time"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

// MessageRepository интерфейс репозитория сообщений
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) (*domain.Message, error)
	ListConversation(ctx context.Context, userID, otherID int64, limit int) ([]*domain.Message, error)
	MarkConversationRead(ctx context.Context, readerID, senderID int64, now time.Time) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
