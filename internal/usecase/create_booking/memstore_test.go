package create_booking_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	machineRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/machine"
	reservationRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/reservation"
	walletRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/wallet"
	"github.com/m04kA/LaundryBookingService/internal/integrations/eventbus"
	"github.com/m04kA/LaundryBookingService/pkg/logger"
)

// memDB хранилище в памяти. Транзакции сериализуются мьютексом,
// при ошибке состояние откатывается к снимку.
type memDB struct {
	mu sync.Mutex

	machines     map[int64]domain.Machine
	reservations map[int64]domain.Reservation
	balances     map[int64]decimal.Decimal
	ledger       []domain.WalletTransaction
	nextID       int64
}

func newMemDB() *memDB {
	return &memDB{
		machines:     make(map[int64]domain.Machine),
		reservations: make(map[int64]domain.Reservation),
		balances:     make(map[int64]decimal.Decimal),
	}
}

type memSnapshot struct {
	machines     map[int64]domain.Machine
	reservations map[int64]domain.Reservation
	balances     map[int64]decimal.Decimal
	ledger       []domain.WalletTransaction
	nextID       int64
}

func (db *memDB) snapshot() memSnapshot {
	s := memSnapshot{
		machines:     make(map[int64]domain.Machine, len(db.machines)),
		reservations: make(map[int64]domain.Reservation, len(db.reservations)),
		balances:     make(map[int64]decimal.Decimal, len(db.balances)),
		ledger:       append([]domain.WalletTransaction(nil), db.ledger...),
		nextID:       db.nextID,
	}
	for k, v := range db.machines {
		s.machines[k] = v
	}
	for k, v := range db.reservations {
		s.reservations[k] = v
	}
	for k, v := range db.balances {
		s.balances[k] = v
	}
	return s
}

func (db *memDB) restore(s memSnapshot) {
	db.machines = s.machines
	db.reservations = s.reservations
	db.balances = s.balances
	db.ledger = s.ledger
	db.nextID = s.nextID
}

func (db *memDB) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	snap := db.snapshot()
	if err := fn(ctx); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

func (db *memDB) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(ctx)
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) addMachine(m domain.Machine) domain.Machine {
	db.mu.Lock()
	defer db.mu.Unlock()
	m.ID = db.id()
	db.machines[m.ID] = m
	return m
}

func (db *memDB) setBalance(userID int64, amount string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.balances[userID] = decimal.RequireFromString(amount)
}

func (db *memDB) balance(userID int64) decimal.Decimal {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.balances[userID]
}

func (db *memDB) ledgerOf(userID int64) []domain.WalletTransaction {
	db.mu.Lock()
	defer db.mu.Unlock()
	var rows []domain.WalletTransaction
	for _, row := range db.ledger {
		if row.UserID == userID {
			rows = append(rows, row)
		}
	}
	return rows
}

func (db *memDB) confirmedOn(machineID int64) []domain.Reservation {
	db.mu.Lock()
	defer db.mu.Unlock()
	var res []domain.Reservation
	for _, r := range db.reservations {
		if r.MachineID == machineID && r.Status == domain.ReservationConfirmed {
			res = append(res, r)
		}
	}
	return res
}

// machineStore реализует репозиторий машин поверх memDB
type machineStore struct{ db *memDB }

func (s machineStore) GetByID(_ context.Context, id int64) (*domain.Machine, error) {
	m, ok := s.db.machines[id]
	if !ok || m.DeletedAt != nil {
		return nil, machineRepo.ErrMachineNotFound
	}
	return &m, nil
}

func (s machineStore) LockByID(ctx context.Context, id int64) (*domain.Machine, error) {
	return s.GetByID(ctx, id)
}

// reservationStore реализует репозиторий бронирований поверх memDB
type reservationStore struct{ db *memDB }

func (s reservationStore) overlapping(machineID int64, interval domain.Interval) *domain.Reservation {
	ids := make([]int64, 0, len(s.db.reservations))
	for id := range s.db.reservations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	for _, id := range ids {
		r := s.db.reservations[id]
		if r.MachineID == machineID && r.OccupiesMachine() && r.Interval().Overlaps(interval) {
			return &r
		}
	}
	return nil
}

func (s reservationStore) FindOverlapping(_ context.Context, machineID int64, interval domain.Interval) (*domain.Reservation, error) {
	if r := s.overlapping(machineID, interval); r != nil {
		return r, nil
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (s reservationStore) AccessCodeInUse(_ context.Context, machineID int64, code string) (bool, error) {
	for _, r := range s.db.reservations {
		if r.MachineID == machineID && r.Status == domain.ReservationConfirmed && r.AccessCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s reservationStore) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if s.overlapping(res.MachineID, res.Interval()) != nil {
		return nil, reservationRepo.ErrOverlap
	}
	created := *res
	created.ID = s.db.id()
	s.db.reservations[created.ID] = created
	return &created, nil
}

func (s reservationStore) ListOccupying(_ context.Context, machineID int64, window domain.Interval) ([]*domain.Reservation, error) {
	var res []*domain.Reservation
	for _, r := range s.db.reservations {
		if r.MachineID == machineID && r.OccupiesMachine() && r.Interval().Overlaps(window) {
			r := r
			res = append(res, &r)
		}
	}
	return res, nil
}

func (s reservationStore) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	r, ok := s.db.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return &r, nil
}

func (s reservationStore) LockByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.GetByID(ctx, id)
}

func (s reservationStore) List(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	var res []*domain.Reservation
	for _, r := range s.db.reservations {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.MachineID != nil && r.MachineID != *filter.MachineID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		r := r
		res = append(res, &r)
	}
	sort.Slice(res, func(a, b int) bool { return res[a].StartTime.After(res[b].StartTime) })
	if filter.Limit > 0 && len(res) > filter.Limit {
		res = res[:filter.Limit]
	}
	return res, nil
}

func (s reservationStore) FindActiveByCode(_ context.Context, machineID int64, code string, now time.Time) (*domain.Reservation, error) {
	for _, r := range s.db.reservations {
		if r.MachineID == machineID && r.AccessCode == code &&
			r.Status == domain.ReservationConfirmed && r.IsActiveAt(now) {
			return &r, nil
		}
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (s reservationStore) Complete(_ context.Context, id int64, now time.Time) (*domain.Reservation, error) {
	r, ok := s.db.reservations[id]
	if !ok || r.Status != domain.ReservationConfirmed {
		return nil, reservationRepo.ErrStatusMismatch
	}
	r.Status = domain.ReservationCompleted
	r.CompletedAt = &now
	s.db.reservations[id] = r
	return &r, nil
}

func (s reservationStore) Cancel(_ context.Context, id int64, cancelledBy *int64, reason domain.CancelReason, now time.Time) (*domain.Reservation, error) {
	r, ok := s.db.reservations[id]
	if !ok || r.Status != domain.ReservationConfirmed {
		return nil, reservationRepo.ErrStatusMismatch
	}
	r.Status = domain.ReservationCancelled
	r.CancelledAt = &now
	r.CancelledBy = cancelledBy
	r.CancelReason = &reason
	s.db.reservations[id] = r
	return &r, nil
}

func (s reservationStore) StatsByUser(_ context.Context, userID int64, now time.Time) (*domain.ReservationStats, error) {
	stats := &domain.ReservationStats{AmountSpent: decimal.Zero}
	for _, r := range s.db.reservations {
		if r.UserID != userID {
			continue
		}
		stats.Total++
		switch {
		case r.Status == domain.ReservationCompleted:
			stats.Completed++
			stats.MinutesUsed += r.DurationMinutes
			stats.AmountSpent = stats.AmountSpent.Add(r.Amount)
		case r.Status == domain.ReservationCancelled:
			stats.Cancelled++
		case r.IsUpcomingAt(now):
			stats.Upcoming++
		}
	}
	return stats, nil
}

// walletStore реализует репозиторий кошельков поверх memDB
type walletStore struct{ db *memDB }

func (s walletStore) Debit(_ context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	balance, ok := s.db.balances[userID]
	if !ok {
		return decimal.Zero, walletRepo.ErrUserNotFound
	}
	if balance.LessThan(amount) {
		return decimal.Zero, walletRepo.ErrInsufficientFunds
	}
	balance = balance.Sub(amount)
	s.db.balances[userID] = balance
	return balance, nil
}

func (s walletStore) Credit(_ context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	balance, ok := s.db.balances[userID]
	if !ok {
		return decimal.Zero, walletRepo.ErrUserNotFound
	}
	balance = balance.Add(amount)
	s.db.balances[userID] = balance
	return balance, nil
}

func (s walletStore) AddTransaction(_ context.Context, t *domain.WalletTransaction) (*domain.WalletTransaction, error) {
	row := *t
	row.ID = s.db.id()
	s.db.ledger = append(s.db.ledger, row)
	return &row, nil
}

// recordingPublisher запоминает опубликованные события
type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.EventType
}

func (p *recordingPublisher) PublishReservation(_ context.Context, eventType eventbus.EventType, _ *domain.Reservation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

func (p *recordingPublisher) count(eventType eventbus.EventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e == eventType {
			n++
		}
	}
	return n
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func newTestLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "error")
}
