package get_available_slots

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	machineRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/machine"
	"github.com/m04kA/LaundryBookingService/pkg/logger"
)

var day = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func hm(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func reservation(id int64, status domain.ReservationStatus, fromH, fromM, toH, toM int) *domain.Reservation {
	return &domain.Reservation{
		ID:        id,
		Status:    status,
		StartTime: hm(fromH, fromM),
		EndTime:   hm(toH, toM),
	}
}

func TestSplitWindow(t *testing.T) {
	window := domain.Interval{Start: hm(8, 0), End: hm(20, 0)}

	tests := []struct {
		name         string
		reservations []*domain.Reservation
		wantFree     []domain.Interval
		wantBusy     []domain.Interval
	}{
		{
			name:         "empty day",
			reservations: nil,
			wantFree:     []domain.Interval{window},
			wantBusy:     []domain.Interval{},
		},
		{
			name: "unsorted with adjacent and cancelled",
			reservations: []*domain.Reservation{
				reservation(3, domain.ReservationConfirmed, 14, 0, 15, 0),
				reservation(1, domain.ReservationConfirmed, 9, 0, 10, 0),
				reservation(2, domain.ReservationCompleted, 10, 0, 11, 0),
				reservation(4, domain.ReservationCancelled, 12, 0, 13, 0),
			},
			wantFree: []domain.Interval{
				{Start: hm(8, 0), End: hm(9, 0)},
				{Start: hm(11, 0), End: hm(14, 0)},
				{Start: hm(15, 0), End: hm(20, 0)},
			},
			wantBusy: []domain.Interval{
				{Start: hm(9, 0), End: hm(11, 0)},
				{Start: hm(14, 0), End: hm(15, 0)},
			},
		},
		{
			name: "reservations sticking out of the window are clipped",
			reservations: []*domain.Reservation{
				reservation(1, domain.ReservationConfirmed, 7, 0, 8, 30),
				reservation(2, domain.ReservationConfirmed, 19, 30, 21, 0),
				reservation(3, domain.ReservationConfirmed, 5, 0, 6, 0),
			},
			wantFree: []domain.Interval{
				{Start: hm(8, 30), End: hm(19, 30)},
			},
			wantBusy: []domain.Interval{
				{Start: hm(8, 0), End: hm(8, 30)},
				{Start: hm(19, 30), End: hm(20, 0)},
			},
		},
		{
			name: "fully booked",
			reservations: []*domain.Reservation{
				reservation(1, domain.ReservationConfirmed, 8, 0, 14, 0),
				reservation(2, domain.ReservationConfirmed, 14, 0, 20, 0),
			},
			wantFree: []domain.Interval{},
			wantBusy: []domain.Interval{window},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			free, busy := splitWindow(window, tt.reservations)
			assert.Equal(t, tt.wantFree, free)
			assert.Equal(t, tt.wantBusy, busy)
		})
	}
}

func TestSplitWindow_FreeAndBusyCoverWindow(t *testing.T) {
	window := domain.Interval{Start: hm(8, 0), End: hm(20, 0)}
	reservations := []*domain.Reservation{
		reservation(1, domain.ReservationConfirmed, 8, 15, 9, 0),
		reservation(2, domain.ReservationConfirmed, 8, 45, 10, 0),
		reservation(3, domain.ReservationConfirmed, 13, 0, 13, 20),
		reservation(4, domain.ReservationConfirmed, 19, 50, 20, 0),
	}

	free, busy := splitWindow(window, reservations)

	var total time.Duration
	for _, in := range append(append([]domain.Interval{}, free...), busy...) {
		total += in.Duration()
	}
	assert.Equal(t, window.Duration(), total)

	for _, f := range free {
		for _, b := range busy {
			assert.False(t, f.Overlaps(b))
		}
	}
}

// Фейки для Execute

type machineRepoStub struct {
	machine *domain.Machine
}

func (s machineRepoStub) GetByID(_ context.Context, id int64) (*domain.Machine, error) {
	if s.machine == nil || s.machine.ID != id {
		return nil, machineRepo.ErrMachineNotFound
	}
	return s.machine, nil
}

type reservationRepoStub struct {
	reservations []*domain.Reservation
	gotWindow    domain.Interval
}

func (s *reservationRepoStub) ListOccupying(_ context.Context, _ int64, window domain.Interval) ([]*domain.Reservation, error) {
	s.gotWindow = window
	return s.reservations, nil
}

type readOnlyTx struct{}

func (readOnlyTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newUseCase(machine *domain.Machine, reservations *reservationRepoStub, loc *time.Location) *UseCase {
	return NewUseCase(machineRepoStub{machine: machine}, reservations, readOnlyTx{}, loc,
		logger.NewWithWriter(io.Discard, "error"))
}

func TestExecute(t *testing.T) {
	machine := &domain.Machine{ID: 5, Status: domain.MachineAvailable, OpenTime: "08:00", CloseTime: "20:00"}
	repo := &reservationRepoStub{reservations: []*domain.Reservation{
		reservation(1, domain.ReservationConfirmed, 9, 0, 10, 0),
	}}

	resp, err := newUseCase(machine, repo, time.UTC).Execute(context.Background(), &Request{MachineID: 5, Date: hm(15, 30)})

	require.NoError(t, err)
	assert.Equal(t, domain.Interval{Start: hm(8, 0), End: hm(20, 0)}, resp.Window)
	assert.Equal(t, resp.Window, repo.gotWindow)
	assert.Len(t, resp.Free, 2)
	assert.Len(t, resp.Busy, 1)
}

func TestExecute_Errors(t *testing.T) {
	available := &domain.Machine{ID: 5, Status: domain.MachineAvailable, OpenTime: "08:00", CloseTime: "20:00"}
	maintenance := &domain.Machine{ID: 5, Status: domain.MachineMaintenance, OpenTime: "08:00", CloseTime: "20:00"}

	tests := []struct {
		name    string
		machine *domain.Machine
		req     *Request
		wantErr error
	}{
		{name: "invalid machine id", machine: available, req: &Request{MachineID: 0, Date: day}, wantErr: ErrInvalidRequest},
		{name: "zero date", machine: available, req: &Request{MachineID: 5}, wantErr: ErrInvalidRequest},
		{name: "unknown machine", machine: available, req: &Request{MachineID: 6, Date: day}, wantErr: ErrMachineNotFound},
		{name: "machine in maintenance", machine: maintenance, req: &Request{MachineID: 5, Date: day}, wantErr: ErrMachineUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newUseCase(tt.machine, &reservationRepoStub{}, time.UTC).Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
