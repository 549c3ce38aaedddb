package machines

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	hostelRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/hostel"
	machineRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/machine"
	"github.com/m04kA/LaundryBookingService/internal/integrations/eventbus"
	"github.com/m04kA/LaundryBookingService/internal/service/machines/models"
	"github.com/m04kA/LaundryBookingService/pkg/logger"
	"github.com/m04kA/LaundryBookingService/pkg/ptr"
)

type mockMachineRepo struct{ mock.Mock }

func (m *mockMachineRepo) Create(ctx context.Context, machine *domain.Machine) (*domain.Machine, error) {
	args := m.Called(ctx, machine)
	if v := args.Get(0); v != nil {
		return v.(*domain.Machine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMachineRepo) GetByID(ctx context.Context, id int64) (*domain.Machine, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Machine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMachineRepo) LockByID(ctx context.Context, id int64) (*domain.Machine, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Machine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMachineRepo) List(ctx context.Context, filter domain.MachinesFilter) ([]*domain.Machine, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Machine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMachineRepo) UpdateStatus(ctx context.Context, id int64, status domain.MachineStatus, now time.Time) error {
	return m.Called(ctx, id, status, now).Error(0)
}

func (m *mockMachineRepo) SoftDelete(ctx context.Context, id int64, now time.Time) error {
	return m.Called(ctx, id, now).Error(0)
}

func (m *mockMachineRepo) AddStatusChange(ctx context.Context, change *domain.MachineStatusChange) (*domain.MachineStatusChange, error) {
	args := m.Called(ctx, change)
	if v := args.Get(0); v != nil {
		return v.(*domain.MachineStatusChange), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMachineRepo) ListStatusChanges(ctx context.Context, machineID int64, limit int) ([]*domain.MachineStatusChange, error) {
	args := m.Called(ctx, machineID, limit)
	if v := args.Get(0); v != nil {
		return v.([]*domain.MachineStatusChange), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockHostelRepo struct{ mock.Mock }

func (m *mockHostelRepo) GetByID(ctx context.Context, id int64) (*domain.Hostel, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Hostel), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReservationRepo struct{ mock.Mock }

func (m *mockReservationRepo) ListFutureConfirmedByMachine(ctx context.Context, machineID int64, now time.Time) ([]*domain.Reservation, error) {
	args := m.Called(ctx, machineID, now)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) CountFutureConfirmedByMachine(ctx context.Context, machineID int64, now time.Time) (int, error) {
	args := m.Called(ctx, machineID, now)
	return args.Int(0), args.Error(1)
}

func (m *mockReservationRepo) Cancel(ctx context.Context, id int64, cancelledBy *int64, reason domain.CancelReason, now time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, id, cancelledBy, reason, now)
	if v := args.Get(0); v != nil {
		return v.(*domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockWalletRepo struct{ mock.Mock }

func (m *mockWalletRepo) Credit(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockWalletRepo) AddTransaction(ctx context.Context, t *domain.WalletTransaction) (*domain.WalletTransaction, error) {
	args := m.Called(ctx, t)
	if v := args.Get(0); v != nil {
		return v.(*domain.WalletTransaction), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishReservation(ctx context.Context, eventType eventbus.EventType, res *domain.Reservation) {
	m.Called(ctx, eventType, res)
}

// passTx выполняет функцию без транзакции
type passTx struct{}

func (passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var testNow = time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

type deps struct {
	machines     *mockMachineRepo
	hostels      *mockHostelRepo
	reservations *mockReservationRepo
	wallets      *mockWalletRepo
	publisher    *mockPublisher
	service      *Service
}

func newDeps(t *testing.T) *deps {
	t.Helper()

	d := &deps{
		machines:     &mockMachineRepo{},
		hostels:      &mockHostelRepo{},
		reservations: &mockReservationRepo{},
		wallets:      &mockWalletRepo{},
		publisher:    &mockPublisher{},
	}
	d.service = NewService(
		d.machines,
		d.hostels,
		d.reservations,
		d.wallets,
		d.publisher,
		passTx{},
		models.Defaults{
			CycleMinutes: 60,
			CostPerCycle: decimal.RequireFromString("10.00"),
			OpenTime:     "08:00",
			CloseTime:    "22:00",
		},
		logger.NewWithWriter(io.Discard, "error"),
	).WithTimeProvider(fixedTime{now: testNow})

	t.Cleanup(func() {
		d.machines.AssertExpectations(t)
		d.hostels.AssertExpectations(t)
		d.reservations.AssertExpectations(t)
		d.wallets.AssertExpectations(t)
		d.publisher.AssertExpectations(t)
	})
	return d
}

func TestService_Create_AppliesDefaults(t *testing.T) {
	d := newDeps(t)

	d.hostels.On("GetByID", mock.Anything, int64(1)).Return(&domain.Hostel{ID: 1}, nil)
	d.machines.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Machine) bool {
		return m.Name == "Washer 1" && m.CycleMinutes == 45 &&
			m.CostPerCycle.Equal(decimal.RequireFromString("10.00")) &&
			m.OpenTime == "08:00" && m.CloseTime == "22:00" &&
			m.Status == domain.MachineAvailable
	})).Return(&domain.Machine{
		ID: 3, HostelID: 1, Name: "Washer 1", Status: domain.MachineAvailable, CycleMinutes: 45,
		CostPerCycle: decimal.RequireFromString("10.00"), OpenTime: "08:00", CloseTime: "22:00",
	}, nil)

	resp, err := d.service.Create(context.Background(), &models.CreateMachineRequest{
		HostelID:     1,
		Name:         "  Washer 1 ",
		CycleMinutes: ptr.Ptr(45),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.ID)
	assert.Equal(t, "10.00", resp.CostPerCycle)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.CreateMachineRequest
	}{
		{name: "empty name", req: &models.CreateMachineRequest{HostelID: 1, Name: "  "}},
		{name: "no hostel", req: &models.CreateMachineRequest{Name: "W"}},
		{name: "zero cycle", req: &models.CreateMachineRequest{HostelID: 1, Name: "W", CycleMinutes: ptr.Ptr(0)}},
		{name: "negative cost", req: &models.CreateMachineRequest{HostelID: 1, Name: "W", CostPerCycle: ptr.Ptr("-1")}},
		{name: "bad cost", req: &models.CreateMachineRequest{HostelID: 1, Name: "W", CostPerCycle: ptr.Ptr("ten")}},
		{name: "inverted window", req: &models.CreateMachineRequest{HostelID: 1, Name: "W", OpenTime: ptr.Ptr("20:00"), CloseTime: ptr.Ptr("08:00")}},
		{name: "bad time", req: &models.CreateMachineRequest{HostelID: 1, Name: "W", OpenTime: ptr.Ptr("8am")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)
			_, err := d.service.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_Create_HostelNotFound(t *testing.T) {
	d := newDeps(t)
	d.hostels.On("GetByID", mock.Anything, int64(9)).Return(nil, hostelRepo.ErrHostelNotFound)

	_, err := d.service.Create(context.Background(), &models.CreateMachineRequest{HostelID: 9, Name: "W"})

	assert.ErrorIs(t, err, ErrHostelNotFound)
}

func TestService_UpdateStatus_MaintenanceCancelsAndRefunds(t *testing.T) {
	d := newDeps(t)
	staff := domain.Actor{UserID: 50, Role: domain.RoleStaff}

	machine := &domain.Machine{ID: 7, Status: domain.MachineAvailable, OpenTime: "08:00", CloseTime: "22:00"}
	future := []*domain.Reservation{
		{ID: 100, UserID: 1, MachineID: 7, Amount: decimal.RequireFromString("10.00"), Status: domain.ReservationConfirmed},
		{ID: 101, UserID: 2, MachineID: 7, Amount: decimal.RequireFromString("5.00"), Status: domain.ReservationConfirmed},
	}

	d.machines.On("LockByID", mock.Anything, int64(7)).Return(machine, nil)
	d.machines.On("UpdateStatus", mock.Anything, int64(7), domain.MachineMaintenance, testNow).Return(nil)
	d.reservations.On("ListFutureConfirmedByMachine", mock.Anything, int64(7), testNow).Return(future, nil)

	for _, res := range future {
		res := res
		cancelled := *res
		cancelled.Status = domain.ReservationCancelled
		d.reservations.On("Cancel", mock.Anything, res.ID, (*int64)(nil), domain.CancelReasonMaintenance, testNow).
			Return(&cancelled, nil)
		d.wallets.On("Credit", mock.Anything, res.UserID, res.Amount).
			Return(decimal.RequireFromString("50.00"), nil)
		d.publisher.On("PublishReservation", mock.Anything, eventbus.ReservationCancelled,
			mock.MatchedBy(func(r *domain.Reservation) bool { return r.ID == res.ID })).Return()
	}
	d.wallets.On("AddTransaction", mock.Anything, mock.MatchedBy(func(tx *domain.WalletTransaction) bool {
		return tx.Type == domain.WalletRefund && tx.Amount.IsPositive() && tx.ReservationID != nil
	})).Return(&domain.WalletTransaction{}, nil).Times(2)
	d.machines.On("AddStatusChange", mock.Anything, mock.MatchedBy(func(c *domain.MachineStatusChange) bool {
		return c.FromStatus == domain.MachineAvailable && c.ToStatus == domain.MachineMaintenance &&
			c.CancelledReservations == 2 && c.ChangedBy != nil && *c.ChangedBy == 50
	})).Return(&domain.MachineStatusChange{}, nil)

	resp, err := d.service.UpdateStatus(context.Background(), staff, 7, &models.UpdateStatusRequest{
		Status: "maintenance",
		Note:   ptr.Ptr("drum replacement"),
	})

	require.NoError(t, err)
	assert.Equal(t, "maintenance", resp.Machine.Status)
	assert.Equal(t, []int64{100, 101}, resp.CancelledBookingIDs)
}

func TestService_UpdateStatus_AvailableKeepsBookings(t *testing.T) {
	d := newDeps(t)
	staff := domain.Actor{UserID: 50, Role: domain.RoleStaff}

	d.machines.On("LockByID", mock.Anything, int64(7)).
		Return(&domain.Machine{ID: 7, Status: domain.MachineMaintenance}, nil)
	d.machines.On("UpdateStatus", mock.Anything, int64(7), domain.MachineAvailable, testNow).Return(nil)
	d.machines.On("AddStatusChange", mock.Anything, mock.MatchedBy(func(c *domain.MachineStatusChange) bool {
		return c.CancelledReservations == 0
	})).Return(&domain.MachineStatusChange{}, nil)

	resp, err := d.service.UpdateStatus(context.Background(), staff, 7, &models.UpdateStatusRequest{Status: "available"})

	require.NoError(t, err)
	assert.Empty(t, resp.CancelledBookingIDs)
	d.reservations.AssertNotCalled(t, "ListFutureConfirmedByMachine", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateStatus_Errors(t *testing.T) {
	staff := domain.Actor{UserID: 50, Role: domain.RoleStaff}

	t.Run("unknown status", func(t *testing.T) {
		d := newDeps(t)
		_, err := d.service.UpdateStatus(context.Background(), staff, 7, &models.UpdateStatusRequest{Status: "broken"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("machine not found", func(t *testing.T) {
		d := newDeps(t)
		d.machines.On("LockByID", mock.Anything, int64(7)).Return(nil, machineRepo.ErrMachineNotFound)

		_, err := d.service.UpdateStatus(context.Background(), staff, 7, &models.UpdateStatusRequest{Status: "offline"})
		assert.ErrorIs(t, err, ErrMachineNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("refused with active bookings", func(t *testing.T) {
		d := newDeps(t)
		d.machines.On("LockByID", mock.Anything, int64(7)).Return(&domain.Machine{ID: 7}, nil)
		d.reservations.On("CountFutureConfirmedByMachine", mock.Anything, int64(7), testNow).Return(2, nil)

		err := d.service.Delete(context.Background(), 7)
		assert.ErrorIs(t, err, ErrHasActiveBookings)
	})

	t.Run("soft deleted", func(t *testing.T) {
		d := newDeps(t)
		d.machines.On("LockByID", mock.Anything, int64(7)).Return(&domain.Machine{ID: 7}, nil)
		d.reservations.On("CountFutureConfirmedByMachine", mock.Anything, int64(7), testNow).Return(0, nil)
		d.machines.On("SoftDelete", mock.Anything, int64(7), testNow).Return(nil)

		assert.NoError(t, d.service.Delete(context.Background(), 7))
	})

	t.Run("not found", func(t *testing.T) {
		d := newDeps(t)
		d.machines.On("LockByID", mock.Anything, int64(7)).Return(nil, machineRepo.ErrMachineNotFound)

		assert.ErrorIs(t, d.service.Delete(context.Background(), 7), ErrMachineNotFound)
	})
}

func TestService_MaintenanceHistory(t *testing.T) {
	d := newDeps(t)

	d.machines.On("GetByID", mock.Anything, int64(7)).Return(&domain.Machine{ID: 7}, nil)
	d.machines.On("ListStatusChanges", mock.Anything, int64(7), maxHistoryRows).Return([]*domain.MachineStatusChange{
		{ID: 2, FromStatus: domain.MachineMaintenance, ToStatus: domain.MachineAvailable},
		{ID: 1, FromStatus: domain.MachineAvailable, ToStatus: domain.MachineMaintenance, CancelledReservations: 3},
	}, nil)

	resp, err := d.service.MaintenanceHistory(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, resp.History, 2)
	assert.Equal(t, "maintenance", resp.History[1].ToStatus)
	assert.Equal(t, 3, resp.History[1].CancelledReservations)
}
