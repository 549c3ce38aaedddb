package get_machine_maintenance

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/service/machines/models"
)

type MachineService interface {
	MaintenanceHistory(ctx context.Context, id int64) (*models.StatusHistoryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
