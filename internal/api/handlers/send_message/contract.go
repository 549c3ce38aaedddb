package send_message

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/internal/service/messages/models"
)

type MessageService interface {
	Send(ctx context.Context, actor domain.Actor, req *models.SendMessageRequest) (*models.MessageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
