package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LaundryBookingService/pkg/types"
)

// MachineStatus represents the operational state of a machine
type MachineStatus string

const (
	MachineAvailable   MachineStatus = "available"
	MachineInUse       MachineStatus = "in_use"
	MachineMaintenance MachineStatus = "maintenance"
	MachineOffline     MachineStatus = "offline"
)

// IsValid reports whether s is a known machine status
func (s MachineStatus) IsValid() bool {
	switch s {
	case MachineAvailable, MachineInUse, MachineMaintenance, MachineOffline:
		return true
	}
	return false
}

// TakesOutOfService returns true for statuses that void future reservations
func (s MachineStatus) TakesOutOfService() bool {
	return s == MachineMaintenance || s == MachineOffline
}

// Machine is a bookable laundry machine in a hostel
type Machine struct {
	ID           int64
	HostelID     int64
	Name         string
	Status       MachineStatus
	CycleMinutes int
	CostPerCycle decimal.Decimal
	OpenTime     types.TimeString
	CloseTime    types.TimeString
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsBookable returns true if new reservations may be placed on the machine
func (m *Machine) IsBookable() bool {
	return m.Status == MachineAvailable && m.DeletedAt == nil
}

// WindowOn returns the operating window of the machine on the calendar day of date.
// The year, month and day of date are taken as is; the window is built in loc.
func (m *Machine) WindowOn(date time.Time, loc *time.Location) (Interval, error) {
	start, err := m.OpenTime.On(date, loc)
	if err != nil {
		return Interval{}, err
	}
	end, err := m.CloseTime.On(date, loc)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}

// FitsWindow reports whether interval lies inside the operating window of the day
// on which it starts (calendar day taken in loc)
func (m *Machine) FitsWindow(interval Interval, loc *time.Location) (bool, error) {
	window, err := m.WindowOn(interval.Start.In(loc), loc)
	if err != nil {
		return false, err
	}
	return window.Contains(interval), nil
}

// CheckBooking verifies that interval may be reserved on the machine:
// the machine is bookable and the interval fits its window.
// Returns ErrMachineNotBookable, ErrOutsideWindow or a window parse error.
func (m *Machine) CheckBooking(interval Interval, loc *time.Location) error {
	if !m.IsBookable() {
		return fmt.Errorf("%w: status is %s", ErrMachineNotBookable, m.Status)
	}

	fits, err := m.FitsWindow(interval, loc)
	if err != nil {
		return err
	}
	if !fits {
		return fmt.Errorf("%w: window is %s-%s", ErrOutsideWindow, m.OpenTime, m.CloseTime)
	}
	return nil
}

// PriceFor returns the amount charged for durationMinutes of use,
// pro-rated by cycle length and rounded to cents
func (m *Machine) PriceFor(durationMinutes int) decimal.Decimal {
	if m.CycleMinutes <= 0 {
		return decimal.Zero
	}
	return m.CostPerCycle.
		Mul(decimal.NewFromInt(int64(durationMinutes))).
		Div(decimal.NewFromInt(int64(m.CycleMinutes))).
		Round(2)
}

// MachineStatusChange is a row of the machine status history
type MachineStatusChange struct {
	ID                    int64
	MachineID             int64
	FromStatus            MachineStatus
	ToStatus              MachineStatus
	ChangedBy             *int64
	Note                  *string
	CancelledReservations int
	CreatedAt             time.Time
}

// MachinesFilter filter for listing machines
type MachinesFilter struct {
	HostelID *int64
	Status   *MachineStatus
}
