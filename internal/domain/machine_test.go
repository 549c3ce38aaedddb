package domain

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachine_FitsWindow_DaylightSavingDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	m := &Machine{Status: MachineAvailable, OpenTime: "08:00", CloseTime: "20:00"}

	// 29.03.2026: часы переводятся вперёд в 02:00
	window, err := m.WindowOn(time.Date(2026, 3, 29, 12, 0, 0, 0, berlin), berlin)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 29, 6, 0, 0, 0, time.UTC), window.Start.UTC())
	assert.Equal(t, time.Date(2026, 3, 29, 18, 0, 0, 0, time.UTC), window.End.UTC())

	first := NewInterval(time.Date(2026, 3, 29, 8, 0, 0, 0, berlin), 60)
	ok, err := m.FitsWindow(first, berlin)
	require.NoError(t, err)
	assert.True(t, ok)

	last := NewInterval(time.Date(2026, 3, 29, 19, 0, 0, 0, berlin), 60)
	ok, err = m.FitsWindow(last, berlin)
	require.NoError(t, err)
	assert.True(t, ok)

	// 25.10.2026: часы переводятся назад в 03:00
	window, err = m.WindowOn(time.Date(2026, 10, 25, 12, 0, 0, 0, berlin), berlin)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 25, 7, 0, 0, 0, time.UTC), window.Start.UTC())
	assert.Equal(t, time.Date(2026, 10, 25, 19, 0, 0, 0, time.UTC), window.End.UTC())
}

func TestMachine_CheckBooking(t *testing.T) {
	available := &Machine{Status: MachineAvailable, OpenTime: "08:00", CloseTime: "20:00"}
	deleted := &Machine{Status: MachineAvailable, OpenTime: "08:00", CloseTime: "20:00", DeletedAt: &time.Time{}}
	broken := &Machine{Status: MachineAvailable, OpenTime: "8am", CloseTime: "20:00"}

	tests := []struct {
		name     string
		machine  *Machine
		interval Interval
		wantErr  error
	}{
		{"fits", available, iv(9, 0, 10, 0), nil},
		{"in use", &Machine{Status: MachineInUse, OpenTime: "08:00", CloseTime: "20:00"}, iv(9, 0, 10, 0), ErrMachineNotBookable},
		{"maintenance", &Machine{Status: MachineMaintenance, OpenTime: "08:00", CloseTime: "20:00"}, iv(9, 0, 10, 0), ErrMachineNotBookable},
		{"deleted", deleted, iv(9, 0, 10, 0), ErrMachineNotBookable},
		{"past closing", available, iv(19, 30, 20, 30), ErrOutsideWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.machine.CheckBooking(tt.interval, time.UTC)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	err := broken.CheckBooking(iv(9, 0, 10, 0), time.UTC)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOutsideWindow)
	assert.NotErrorIs(t, err, ErrMachineNotBookable)
}
