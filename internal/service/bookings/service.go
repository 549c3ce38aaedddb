package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/internal/integrations/eventbus"
	reservationRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/LaundryBookingService/internal/service/bookings/models"
	"github.com/m04kA/LaundryBookingService/pkg/ptr"
)

// Service сервис для работы с бронированиями: чтение, отмена с возвратом средств,
// завершение и проверка кодов доступа
type Service struct {
	reservationRepo ReservationRepository
	walletRepo      WalletRepository
	publisher       EventPublisher
	txManager       TransactionManager
	location        *time.Location
	recentLimit     int
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	walletRepo WalletRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	location *time.Location,
	recentLimit int,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	if recentLimit <= 0 {
		recentLimit = 5
	}
	return &Service{
		reservationRepo: reservationRepo,
		walletRepo:      walletRepo,
		publisher:       publisher,
		txManager:       txManager,
		location:        location,
		recentLimit:     recentLimit,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID.
// Доступно владельцу бронирования и персоналу.
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !actor.CanAccessUser(reservation.UserID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return s.toResponse(actor, reservation), nil
}

// ListOwn получает бронирования текущего пользователя, опционально по статусу
func (s *Service) ListOwn(ctx context.Context, actor domain.Actor, status *string) (*models.BookingListResponse, error) {
	s.logger.Info("ListOwn: fetching bookings for user=%d, status=%v", actor.UserID, status)

	filter := domain.ReservationsFilter{
		UserID: ptr.Ptr(actor.UserID),
		Limit:  domain.MaxListLimit,
	}

	if status != nil {
		st, err := models.ToDomainBookingStatus(*status)
		if err != nil {
			s.logger.Warn("ListOwn: invalid status=%s for user=%d", *status, actor.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &st
	}

	reservations, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListOwn: repository error for user=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: ListOwn - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListOwn: fetched %d bookings for user=%d", len(reservations), actor.UserID)
	return models.FromDomainBookingList(reservations), nil
}

// ListAll получает бронирования всех пользователей с фильтрацией.
// Доступно только персоналу; коды доступа в ответе скрыты.
func (s *Service) ListAll(ctx context.Context, actor domain.Actor, req *models.ListAllRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListAll: fetching bookings by user=%d", actor.UserID)

	if !actor.Role.IsStaff() {
		s.logger.Warn("ListAll: access denied for user=%d with role=%s", actor.UserID, actor.Role)
		return nil, ErrAccessDenied
	}

	filter, err := s.toDomainFilter(req)
	if err != nil {
		s.logger.Warn("ListAll: invalid filter: %v", err)
		return nil, err
	}

	reservations, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAll - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainBookingList(reservations)
	for i := range resp.Bookings {
		resp.Bookings[i].WithoutAccessCode()
	}

	s.logger.Info("ListAll: fetched %d bookings", len(reservations))
	return resp, nil
}

// Cancel отменяет бронирование и возвращает его стоимость на кошелёк владельца.
// Владелец может отменить своё бронирование, персонал - любое.
// Отмена возможна только для подтверждённого бронирования до его начала.
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, id int64) (*models.CancelResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", id, actor.UserID)

	now := s.timeProvider.Now()

	var (
		cancelled *domain.Reservation
		balance   decimal.Decimal
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем строку бронирования
		reservation, err := s.reservationRepo.LockByID(txCtx, id)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("Cancel: booking id=%d not found", id)
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - lock booking: %v", ErrInternal, err)
		}

		// 2. Проверяем права
		isOwner := reservation.UserID == actor.UserID
		if !isOwner && !actor.CanCancelAny() {
			s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", actor.UserID, id)
			return ErrAccessDenied
		}

		// 3. Проверяем статус и время
		if !reservation.CanBeCancelledAt(now) {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s, start=%s",
				id, reservation.Status, reservation.StartTime.Format(time.RFC3339))
			return ErrInvalidTransition
		}

		reason := domain.CancelReasonUser
		if !isOwner {
			reason = domain.CancelReasonStaff
		}

		// 4. Отменяем
		cancelled, err = s.reservationRepo.Cancel(txCtx, id, ptr.Ptr(actor.UserID), reason, now)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrStatusMismatch) {
				return ErrInvalidTransition
			}
			return fmt.Errorf("%w: Cancel - update booking: %v", ErrInternal, err)
		}

		// 5. Возвращаем средства владельцу
		balance, err = s.refund(txCtx, cancelled)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		s.logger.Error("Cancel: transaction failed for booking id=%d: %v", id, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: Cancel - transaction: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: booking id=%d cancelled, refunded=%s to user=%d",
		id, cancelled.Amount.StringFixed(2), cancelled.UserID)

	s.publisher.PublishReservation(ctx, eventbus.ReservationCancelled, cancelled)

	return &models.CancelResponse{
		Booking:      *s.toResponse(actor, cancelled),
		Refunded:     cancelled.Amount.StringFixed(2),
		BalanceAfter: balance.StringFixed(2),
	}, nil
}

// Complete переводит подтверждённое бронирование в завершённое. Средства не возвращаются.
func (s *Service) Complete(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("Complete: completing booking id=%d", id)

	completed, err := s.reservationRepo.Complete(ctx, id, s.timeProvider.Now())
	if err != nil {
		if !errors.Is(err, reservationRepo.ErrStatusMismatch) {
			s.logger.Error("Complete: repository error for booking id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}

		// Условное обновление не сработало: бронирования нет или оно не в статусе confirmed
		existing, getErr := s.reservationRepo.GetByID(ctx, id)
		if getErr != nil {
			if errors.Is(getErr, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("Complete: booking id=%d not found", id)
				return nil, ErrBookingNotFound
			}
			return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, getErr)
		}

		s.logger.Warn("Complete: booking id=%d is %s, cannot complete", id, existing.Status)
		return nil, ErrInvalidTransition
	}

	s.logger.Info("Complete: booking id=%d completed", id)

	s.publisher.PublishReservation(ctx, eventbus.ReservationCompleted, completed)

	return models.FromDomainBooking(completed).WithoutAccessCode(), nil
}

// ValidateCode ищет активное в данный момент бронирование машины с указанным кодом.
// Причина отказа (неверный код, другое время, отменённое бронирование) не раскрывается.
func (s *Service) ValidateCode(ctx context.Context, machineID int64, code string) (*models.BookingResponse, error) {
	s.logger.Info("ValidateCode: validating code for machine=%d", machineID)

	reservation, err := s.reservationRepo.FindActiveByCode(ctx, machineID, code, s.timeProvider.Now())
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("ValidateCode: no active booking for machine=%d with given code", machineID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("ValidateCode: repository error for machine=%d: %v", machineID, err)
		return nil, fmt.Errorf("%w: ValidateCode - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ValidateCode: code accepted for booking id=%d", reservation.ID)
	return models.FromDomainBooking(reservation).WithoutAccessCode(), nil
}

// Stats возвращает статистику бронирований текущего пользователя
func (s *Service) Stats(ctx context.Context, actor domain.Actor) (*models.StatsResponse, error) {
	s.logger.Info("Stats: fetching stats for user=%d", actor.UserID)

	now := s.timeProvider.Now()

	var stats *domain.ReservationStats

	// Агрегаты и последние бронирования читаем из одного снимка
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		stats, err = s.reservationRepo.StatsByUser(txCtx, actor.UserID, now)
		if err != nil {
			return fmt.Errorf("stats: %v", err)
		}

		stats.Recent, err = s.reservationRepo.List(txCtx, domain.ReservationsFilter{
			UserID: ptr.Ptr(actor.UserID),
			Limit:  s.recentLimit,
		})
		if err != nil {
			return fmt.Errorf("recent: %v", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Stats: repository error for user=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: Stats - %v", ErrInternal, err)
	}

	return &models.StatsResponse{
		Total:       stats.Total,
		Completed:   stats.Completed,
		Upcoming:    stats.Upcoming,
		Cancelled:   stats.Cancelled,
		MinutesUsed: stats.MinutesUsed,
		AmountSpent: stats.AmountSpent.StringFixed(2),
		Recent:      models.FromDomainBookingList(stats.Recent).Bookings,
	}, nil
}

// refund зачисляет стоимость бронирования на кошелёк владельца и пишет строку журнала.
// Вызывается внутри транзакции.
func (s *Service) refund(ctx context.Context, reservation *domain.Reservation) (decimal.Decimal, error) {
	balance, err := s.walletRepo.Credit(ctx, reservation.UserID, reservation.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: refund - credit wallet: %v", ErrInternal, err)
	}

	_, err = s.walletRepo.AddTransaction(ctx, &domain.WalletTransaction{
		UserID:        reservation.UserID,
		Type:          domain.WalletRefund,
		Amount:        reservation.Amount,
		BalanceAfter:  balance,
		ReservationID: ptr.Ptr(reservation.ID),
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: refund - write ledger: %v", ErrInternal, err)
	}

	return balance, nil
}

func (s *Service) toResponse(actor domain.Actor, reservation *domain.Reservation) *models.BookingResponse {
	resp := models.FromDomainBooking(reservation)
	if reservation.UserID != actor.UserID {
		resp.WithoutAccessCode()
	}
	return resp
}

func (s *Service) toDomainFilter(req *models.ListAllRequest) (domain.ReservationsFilter, error) {
	filter := domain.ReservationsFilter{
		MachineID: req.MachineID,
		HostelID:  req.HostelID,
		Limit:     req.Limit,
		Offset:    req.Offset,
	}

	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultListLimit
	}
	if filter.Limit > domain.MaxListLimit {
		filter.Limit = domain.MaxListLimit
	}
	if filter.Offset < 0 {
		return filter, fmt.Errorf("%w: negative offset", ErrInvalidInput)
	}

	if req.Status != nil {
		st, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &st
	}

	if req.Date != nil {
		d := *req.Date
		from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.location)
		to := from.AddDate(0, 0, 1)
		filter.From = &from
		filter.To = &to
	}

	return filter, nil
}
