package update_machine_status

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/internal/service/machines/models"
)

type MachineService interface {
	UpdateStatus(ctx context.Context, actor domain.Actor, id int64, req *models.UpdateStatusRequest) (*models.UpdateStatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
