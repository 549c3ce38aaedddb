package create_booking

import (
	"time"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	createBooking "github.com/m04kA/LaundryBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	MachineID       int64  `json:"machineId"`
	StartTime       string `json:"startTime"` // RFC3339, "2025-10-15T10:00:00+05:30"
	DurationMinutes int    `json:"durationMinutes"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"userId"`
	MachineID       int64  `json:"machineId"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Amount          string `json:"amount"`
	Status          string `json:"status"`
	AccessCode      string `json:"accessCode"`
	BalanceAfter    string `json:"balanceAfter"`
	CreatedAt       string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Actor:           actor,
		MachineID:       r.MachineID,
		StartTime:       start,
		DurationMinutes: r.DurationMinutes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		MachineID:       resp.MachineID,
		StartTime:       resp.StartTime.Format(time.RFC3339),
		EndTime:         resp.EndTime.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Amount:          resp.Amount.StringFixed(2),
		Status:          resp.Status,
		AccessCode:      resp.AccessCode,
		BalanceAfter:    resp.BalanceAfter.StringFixed(2),
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
