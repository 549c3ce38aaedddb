package bookings

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	reservationRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/LaundryBookingService/internal/integrations/eventbus"
	"github.com/m04kA/LaundryBookingService/internal/service/bookings/models"
	"github.com/m04kA/LaundryBookingService/pkg/logger"
	"github.com/m04kA/LaundryBookingService/pkg/ptr"
)

type mockReservationRepo struct{ mock.Mock }

func (m *mockReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) LockByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) FindActiveByCode(ctx context.Context, machineID int64, code string, now time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, machineID, code, now)
	if v := args.Get(0); v != nil {
		return v.(*domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) Complete(ctx context.Context, id int64, now time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, id, now)
	if v := args.Get(0); v != nil {
		return v.(*domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) Cancel(ctx context.Context, id int64, cancelledBy *int64, reason domain.CancelReason, now time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, id, cancelledBy, reason, now)
	if v := args.Get(0); v != nil {
		return v.(*domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) StatsByUser(ctx context.Context, userID int64, now time.Time) (*domain.ReservationStats, error) {
	args := m.Called(ctx, userID, now)
	if v := args.Get(0); v != nil {
		return v.(*domain.ReservationStats), args.Error(1)
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

type passTx struct{}

func (passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var (
	testNow = time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	student = domain.Actor{UserID: 1, Role: domain.RoleStudent}
	other   = domain.Actor{UserID: 2, Role: domain.RoleStudent}
	staff   = domain.Actor{UserID: 50, Role: domain.RoleStaff}
)

func confirmedReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:              10,
		UserID:          student.UserID,
		MachineID:       3,
		StartTime:       testNow.Add(2 * time.Hour),
		EndTime:         testNow.Add(3 * time.Hour),
		DurationMinutes: 60,
		Amount:          decimal.RequireFromString("10.00"),
		Status:          domain.ReservationConfirmed,
		AccessCode:      "AB12CD34",
	}
}

func newService(t *testing.T) (*Service, *mockReservationRepo, *mockWalletRepo, *mockPublisher) {
	t.Helper()

	reservations := &mockReservationRepo{}
	wallets := &mockWalletRepo{}
	publisher := &mockPublisher{}

	svc := NewService(reservations, wallets, publisher, passTx{}, time.UTC, 5,
		logger.NewWithWriter(io.Discard, "error")).
		WithTimeProvider(fixedTime{now: testNow})

	t.Cleanup(func() {
		reservations.AssertExpectations(t)
		wallets.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})
	return svc, reservations, wallets, publisher
}

func TestService_GetByID(t *testing.T) {
	t.Run("owner sees access code", func(t *testing.T) {
		svc, reservations, _, _ := newService(t)
		reservations.On("GetByID", mock.Anything, int64(10)).Return(confirmedReservation(), nil)

		resp, err := svc.GetByID(context.Background(), student, 10)
		require.NoError(t, err)
		assert.Equal(t, "AB12CD34", resp.AccessCode)
		assert.Equal(t, "10.00", resp.Amount)
	})

	t.Run("staff does not see access code", func(t *testing.T) {
		svc, reservations, _, _ := newService(t)
		reservations.On("GetByID", mock.Anything, int64(10)).Return(confirmedReservation(), nil)

		resp, err := svc.GetByID(context.Background(), staff, 10)
		require.NoError(t, err)
		assert.Empty(t, resp.AccessCode)
	})

	t.Run("other student is denied", func(t *testing.T) {
		svc, reservations, _, _ := newService(t)
		reservations.On("GetByID", mock.Anything, int64(10)).Return(confirmedReservation(), nil)

		_, err := svc.GetByID(context.Background(), other, 10)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("not found", func(t *testing.T) {
		svc, reservations, _, _ := newService(t)
		reservations.On("GetByID", mock.Anything, int64(10)).Return(nil, reservationRepo.ErrReservationNotFound)

		_, err := svc.GetByID(context.Background(), student, 10)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, reservations, _, _ := newService(t)
		reservations.On("GetByID", mock.Anything, int64(10)).Return(nil, errors.New("connection reset"))

		_, err := svc.GetByID(context.Background(), student, 10)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_Cancel_ByOwner(t *testing.T) {
	svc, reservations, wallets, publisher := newService(t)

	res := confirmedReservation()
	cancelled := *res
	cancelled.Status = domain.ReservationCancelled
	cancelled.CancelReason = ptr.Ptr(domain.CancelReasonUser)

	reservations.On("LockByID", mock.Anything, int64(10)).Return(res, nil)
	reservations.On("Cancel", mock.Anything, int64(10), ptr.Ptr(student.UserID), domain.CancelReasonUser, testNow).
		Return(&cancelled, nil)
	wallets.On("Credit", mock.Anything, student.UserID, res.Amount).Return(decimal.RequireFromString("100.00"), nil)
	wallets.On("AddTransaction", mock.Anything, mock.MatchedBy(func(tx *domain.WalletTransaction) bool {
		return tx.Type == domain.WalletRefund && tx.Amount.Equal(res.Amount) && *tx.ReservationID == 10
	})).Return(&domain.WalletTransaction{}, nil)
	publisher.On("PublishReservation", mock.Anything, eventbus.ReservationCancelled, &cancelled).Return()

	resp, err := svc.Cancel(context.Background(), student, 10)

	require.NoError(t, err)
	assert.Equal(t, "10.00", resp.Refunded)
	assert.Equal(t, "100.00", resp.BalanceAfter)
	assert.Equal(t, "cancelled", resp.Booking.Status)
	require.NotNil(t, resp.Booking.CancelReason)
	assert.Equal(t, "user", *resp.Booking.CancelReason)
}

func TestService_Cancel_ByStaff(t *testing.T) {
	svc, reservations, wallets, publisher := newService(t)

	res := confirmedReservation()
	cancelled := *res
	cancelled.Status = domain.ReservationCancelled

	reservations.On("LockByID", mock.Anything, int64(10)).Return(res, nil)
	reservations.On("Cancel", mock.Anything, int64(10), ptr.Ptr(staff.UserID), domain.CancelReasonStaff, testNow).
		Return(&cancelled, nil)
	wallets.On("Credit", mock.Anything, student.UserID, res.Amount).Return(decimal.RequireFromString("100.00"), nil)
	wallets.On("AddTransaction", mock.Anything, mock.Anything).Return(&domain.WalletTransaction{}, nil)
	publisher.On("PublishReservation", mock.Anything, eventbus.ReservationCancelled, mock.Anything).Return()

	resp, err := svc.Cancel(context.Background(), staff, 10)

	require.NoError(t, err)
	assert.Empty(t, resp.Booking.AccessCode)
}

func TestService_Cancel_Rejected(t *testing.T) {
	t.Run("another student", func(t *testing.T) {
		svc, reservations, _, _ := newService(t)
		reservations.On("LockByID", mock.Anything, int64(10)).Return(confirmedReservation(), nil)

		_, err := svc.Cancel(context.Background(), other, 10)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("already started", func(t *testing.T) {
		svc, reservations, _, _ := newService(t)
		res := confirmedReservation()
		res.StartTime = testNow
		reservations.On("LockByID", mock.Anything, int64(10)).Return(res, nil)

		_, err := svc.Cancel(context.Background(), student, 10)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("already completed", func(t *testing.T) {
		svc, reservations, _, _ := newService(t)
		res := confirmedReservation()
		res.Status = domain.ReservationCompleted
		reservations.On("LockByID", mock.Anything, int64(10)).Return(res, nil)

		_, err := svc.Cancel(context.Background(), staff, 10)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("not found", func(t *testing.T) {
		svc, reservations, _, _ := newService(t)
		reservations.On("LockByID", mock.Anything, int64(10)).Return(nil, reservationRepo.ErrReservationNotFound)

		_, err := svc.Cancel(context.Background(), student, 10)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("refund failure", func(t *testing.T) {
		svc, reservations, wallets, _ := newService(t)
		res := confirmedReservation()
		reservations.On("LockByID", mock.Anything, int64(10)).Return(res, nil)
		reservations.On("Cancel", mock.Anything, int64(10), mock.Anything, domain.CancelReasonUser, testNow).Return(res, nil)
		wallets.On("Credit", mock.Anything, student.UserID, res.Amount).Return(decimal.Zero, errors.New("deadlock"))

		_, err := svc.Cancel(context.Background(), student, 10)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_ListAll(t *testing.T) {
	t.Run("students are denied", func(t *testing.T) {
		svc, _, _, _ := newService(t)

		_, err := svc.ListAll(context.Background(), student, &models.ListAllRequest{})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("filters and hides codes", func(t *testing.T) {
		svc, reservations, _, _ := newService(t)

		date := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
		reservations.On("List", mock.Anything, mock.MatchedBy(func(f domain.ReservationsFilter) bool {
			return f.Limit == domain.MaxListLimit &&
				f.MachineID != nil && *f.MachineID == 3 &&
				f.Status != nil && *f.Status == domain.ReservationConfirmed &&
				f.From != nil && f.From.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) &&
				f.To != nil && f.To.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
		})).Return([]*domain.Reservation{confirmedReservation()}, nil)

		resp, err := svc.ListAll(context.Background(), staff, &models.ListAllRequest{
			MachineID: ptr.Ptr(int64(3)),
			Status:    ptr.Ptr("confirmed"),
			Date:      &date,
			Limit:     1000,
		})

		require.NoError(t, err)
		require.Len(t, resp.Bookings, 1)
		assert.Empty(t, resp.Bookings[0].AccessCode)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _, _, _ := newService(t)

		_, err := svc.ListAll(context.Background(), staff, &models.ListAllRequest{Status: ptr.Ptr("lost")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_ListOwn(t *testing.T) {
	svc, reservations, _, _ := newService(t)

	reservations.On("List", mock.Anything, mock.MatchedBy(func(f domain.ReservationsFilter) bool {
		return f.UserID != nil && *f.UserID == student.UserID &&
			f.Status != nil && *f.Status == domain.ReservationCancelled
	})).Return([]*domain.Reservation{}, nil)

	resp, err := svc.ListOwn(context.Background(), student, ptr.Ptr("cancelled"))

	require.NoError(t, err)
	assert.Empty(t, resp.Bookings)
}

func TestService_ValidateCode(t *testing.T) {
	svc, reservations, _, _ := newService(t)

	reservations.On("FindActiveByCode", mock.Anything, int64(3), "AB12CD34", testNow).Return(confirmedReservation(), nil)
	reservations.On("FindActiveByCode", mock.Anything, int64(3), "XXXXXXXX", testNow).Return(nil, reservationRepo.ErrReservationNotFound)

	resp, err := svc.ValidateCode(context.Background(), 3, "AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
	assert.Empty(t, resp.AccessCode)

	_, err = svc.ValidateCode(context.Background(), 3, "XXXXXXXX")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_Complete(t *testing.T) {
	t.Run("confirmed becomes completed", func(t *testing.T) {
		svc, reservations, _, publisher := newService(t)

		completed := confirmedReservation()
		completed.Status = domain.ReservationCompleted
		completed.CompletedAt = &testNow
		reservations.On("Complete", mock.Anything, int64(10), testNow).Return(completed, nil)
		publisher.On("PublishReservation", mock.Anything, eventbus.ReservationCompleted, completed).Return()

		resp, err := svc.Complete(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
	})

	t.Run("cancelled cannot be completed", func(t *testing.T) {
		svc, reservations, _, _ := newService(t)

		res := confirmedReservation()
		res.Status = domain.ReservationCancelled
		reservations.On("Complete", mock.Anything, int64(10), testNow).Return(nil, reservationRepo.ErrStatusMismatch)
		reservations.On("GetByID", mock.Anything, int64(10)).Return(res, nil)

		_, err := svc.Complete(context.Background(), 10)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}
