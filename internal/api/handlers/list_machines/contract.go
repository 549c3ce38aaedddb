package list_machines

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/service/machines/models"
)

type MachineService interface {
	List(ctx context.Context, req *models.ListMachinesRequest) (*models.MachineListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
