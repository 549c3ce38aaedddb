package models

import (
	"errors"
	"time"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListAllRequest запрос на получение всех бронирований (персонал)
type ListAllRequest struct {
	MachineID *int64
	HostelID  *int64
	Status    *string
	Date      *time.Time // Календарный день в часовом поясе сервиса
	Limit     int
	Offset    int
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"userId"`
	MachineID       int64      `json:"machineId"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         time.Time  `json:"endTime"`
	DurationMinutes int        `json:"durationMinutes"`
	Amount          string     `json:"amount"`
	Status          string     `json:"status"`
	AccessCode      string     `json:"accessCode,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	CancelledBy     *int64     `json:"cancelledBy,omitempty"`
	CancelReason    *string    `json:"cancelReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CancelResponse ответ на отмену бронирования
type CancelResponse struct {
	Booking      BookingResponse `json:"booking"`
	Refunded     string          `json:"refunded"`
	BalanceAfter string          `json:"balanceAfter"`
}

// StatsResponse статистика бронирований пользователя
type StatsResponse struct {
	Total       int               `json:"total"`
	Completed   int               `json:"completed"`
	Upcoming    int               `json:"upcoming"`
	Cancelled   int               `json:"cancelled"`
	MinutesUsed int               `json:"minutesUsed"`
	AmountSpent string            `json:"amountSpent"`
	Recent      []BookingResponse `json:"recent"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(r *domain.Reservation) *BookingResponse {
	if r == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		MachineID:       r.MachineID,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		DurationMinutes: r.DurationMinutes,
		Amount:          r.Amount.StringFixed(2),
		Status:          string(r.Status),
		AccessCode:      r.AccessCode,
		CompletedAt:     r.CompletedAt,
		CancelledAt:     r.CancelledAt,
		CancelledBy:     r.CancelledBy,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}

	if r.CancelReason != nil {
		reason := string(*r.CancelReason)
		resp.CancelReason = &reason
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(reservations []*domain.Reservation) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		if b := FromDomainBooking(r); b != nil {
			resp.Bookings = append(resp.Bookings, *b)
		}
	}

	return resp
}

// WithoutAccessCode скрывает код доступа (для ответов персоналу по чужим бронированиям)
func (b *BookingResponse) WithoutAccessCode() *BookingResponse {
	b.AccessCode = ""
	return b
}

// ToDomainBookingStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainBookingStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
