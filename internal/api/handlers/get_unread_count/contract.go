package get_unread_count

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/internal/service/messages/models"
)

type MessageService interface {
	UnreadCount(ctx context.Context, actor domain.Actor) (*models.UnreadCountResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
