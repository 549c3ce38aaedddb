package get_machine

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/service/machines/models"
)

type MachineService interface {
	GetByID(ctx context.Context, id int64) (*models.MachineResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
