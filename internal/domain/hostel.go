package domain

import "time"

// Hostel groups users and machines
type Hostel struct {
	ID        int64
	Name      string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
