package mark_conversation_read

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/internal/service/messages/models"
)

type MessageService interface {
	MarkRead(ctx context.Context, actor domain.Actor, senderID int64) (*models.MarkReadResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
