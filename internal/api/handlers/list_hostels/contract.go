package list_hostels

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/service/hostels/models"
)

type HostelService interface {
	List(ctx context.Context) (*models.HostelListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
