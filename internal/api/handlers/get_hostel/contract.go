package get_hostel

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/service/hostels/models"
)

type HostelService interface {
	GetByID(ctx context.Context, id int64) (*models.HostelResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
