package validate_access_code

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/service/bookings/models"
)

type BookingService interface {
	ValidateCode(ctx context.Context, machineID int64, code string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
