package create_hostel

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/service/hostels/models"
)

type HostelService interface {
	Create(ctx context.Context, req *models.CreateHostelRequest) (*models.HostelResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
