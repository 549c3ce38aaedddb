package domain

import "errors"

var (
	// ErrMachineNotBookable is returned when the machine does not accept new reservations
	ErrMachineNotBookable = errors.New("domain: machine is not bookable")

	// ErrOutsideWindow is returned when an interval does not fit the operating window
	ErrOutsideWindow = errors.New("domain: interval is outside the operating window")
)
