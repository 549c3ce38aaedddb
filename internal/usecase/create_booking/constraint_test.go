package create_booking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	reservationRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/LaundryBookingService/internal/integrations/eventbus"
	"github.com/m04kA/LaundryBookingService/internal/usecase/create_booking"
	"github.com/m04kA/LaundryBookingService/pkg/accesscode"
)

// staleReservations не видит пересечений первые hidden вызовов FindOverlapping,
// как транзакция, начавшаяся до фиксации конкурирующей вставки.
// Create по-прежнему отклоняет пересечение с ErrOverlap, как ограничение БД.
type staleReservations struct {
	reservationStore
	hidden   int
	lookups  int
	inserted int
}

func (s *staleReservations) FindOverlapping(ctx context.Context, machineID int64, interval domain.Interval) (*domain.Reservation, error) {
	s.lookups++
	if s.lookups <= s.hidden {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return s.reservationStore.FindOverlapping(ctx, machineID, interval)
}

func (s *staleReservations) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	s.inserted++
	return s.reservationStore.Create(ctx, res)
}

func newStaleUseCase(f *fixture, store *staleReservations) *create_booking.UseCase {
	return create_booking.NewUseCase(
		machineStore{f.db},
		store,
		walletStore{f.db},
		accesscode.NewGenerator(),
		f.publisher,
		f.db,
		create_booking.Settings{Location: time.UTC, MaxDurationMinutes: 240, AccessCodeAttempts: 10},
		newTestLogger(),
	).WithTimeProvider(fixedTime{now: clock(7, 0)})
}

func TestCreateBooking_StorageOverlapResolvesWinner(t *testing.T) {
	f := newFixture(t)
	f.db.setBalance(1, "100.00")
	f.db.setBalance(2, "100.00")

	winner, err := f.book(1, clock(9, 0), 60)
	require.NoError(t, err)

	store := &staleReservations{reservationStore: reservationStore{f.db}, hidden: 1}
	_, err = newStaleUseCase(f, store).Execute(context.Background(), &create_booking.Request{
		Actor:           domain.Actor{UserID: 2, Role: domain.RoleStudent},
		MachineID:       f.machine.ID,
		StartTime:       clock(9, 30),
		DurationMinutes: 60,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, create_booking.ErrConflict)

	var conflict *create_booking.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, winner.ID, conflict.ReservationID)

	assert.Equal(t, 1, store.inserted)
	assert.Equal(t, 2, store.lookups)

	// списание откатилось вместе со вставкой
	assert.Equal(t, "100.00", f.db.balance(2).StringFixed(2))
	assert.Empty(t, f.db.ledgerOf(2))
	assert.Len(t, f.db.confirmedOn(f.machine.ID), 1)
	assert.Equal(t, 1, f.publisher.count(eventbus.ReservationCreated))
}

func TestCreateBooking_StorageOverlapWinnerGone(t *testing.T) {
	f := newFixture(t)
	f.db.setBalance(1, "100.00")
	f.db.setBalance(2, "100.00")

	_, err := f.book(1, clock(9, 0), 60)
	require.NoError(t, err)

	// победитель не находится и при повторном поиске
	store := &staleReservations{reservationStore: reservationStore{f.db}, hidden: 2}
	_, err = newStaleUseCase(f, store).Execute(context.Background(), &create_booking.Request{
		Actor:           domain.Actor{UserID: 2, Role: domain.RoleStudent},
		MachineID:       f.machine.ID,
		StartTime:       clock(9, 30),
		DurationMinutes: 60,
	})

	assert.ErrorIs(t, err, create_booking.ErrConflict)

	var conflict *create_booking.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Zero(t, conflict.ReservationID)
	assert.Equal(t, "100.00", f.db.balance(2).StringFixed(2))
}
