package get_conversation

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/internal/service/messages/models"
)

type MessageService interface {
	Conversation(ctx context.Context, actor domain.Actor, otherID int64, limit int) (*models.ConversationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
