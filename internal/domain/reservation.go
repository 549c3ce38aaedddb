package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// IsValid reports whether s is a known reservation status
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationConfirmed, ReservationCompleted, ReservationCancelled:
		return true
	}
	return false
}

// CancelReason explains who cancelled a reservation
type CancelReason string

const (
	CancelReasonUser        CancelReason = "user"
	CancelReasonStaff       CancelReason = "staff"
	CancelReasonMaintenance CancelReason = "maintenance"
)

// Reservation is a booking of one machine for [StartTime, EndTime)
type Reservation struct {
	ID              int64
	UserID          int64
	MachineID       int64
	StartTime       time.Time
	DurationMinutes int
	EndTime         time.Time
	Amount          decimal.Decimal
	Status          ReservationStatus
	AccessCode      string

	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CancelledBy  *int64 // nil when cancelled by the system
	CancelReason *CancelReason

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the half-open interval occupied by the reservation
func (r *Reservation) Interval() Interval {
	return Interval{Start: r.StartTime, End: r.EndTime}
}

// OccupiesMachine returns true if the reservation still holds its interval
func (r *Reservation) OccupiesMachine() bool {
	return r.Status != ReservationCancelled
}

// CanBeCancelledAt returns true if the reservation may be cancelled at now
func (r *Reservation) CanBeCancelledAt(now time.Time) bool {
	return r.Status == ReservationConfirmed && now.Before(r.StartTime)
}

// IsActiveAt returns true if now falls inside the reservation interval
func (r *Reservation) IsActiveAt(now time.Time) bool {
	return !now.Before(r.StartTime) && now.Before(r.EndTime)
}

// IsUpcomingAt returns true if the reservation is confirmed and has not started
func (r *Reservation) IsUpcomingAt(now time.Time) bool {
	return r.Status == ReservationConfirmed && r.StartTime.After(now)
}

// ReservationsFilter filter for listing reservations
type ReservationsFilter struct {
	UserID    *int64
	MachineID *int64
	HostelID  *int64
	Status    *ReservationStatus
	From      *time.Time // start_time >= From
	To        *time.Time // start_time < To
	Limit     int
	Offset    int
}

// ReservationStats read projection of a user's reservation history
type ReservationStats struct {
	Total       int
	Completed   int
	Upcoming    int
	Cancelled   int
	MinutesUsed int
	AmountSpent decimal.Decimal
	Recent      []*Reservation
}
