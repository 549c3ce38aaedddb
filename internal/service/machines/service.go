package machines

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	hostelRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/hostel"
	machineRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/machine"
	"github.com/m04kA/LaundryBookingService/internal/integrations/eventbus"
	"github.com/m04kA/LaundryBookingService/internal/service/machines/models"
	"github.com/m04kA/LaundryBookingService/pkg/ptr"
)

// maxHistoryRows сколько строк истории статусов отдаётся за раз
const maxHistoryRows = 100

// Service сервис для управления машинами
type Service struct {
	machineRepo     MachineRepository
	hostelRepo      HostelRepository
	reservationRepo ReservationRepository
	walletRepo      WalletRepository
	publisher       EventPublisher
	txManager       TransactionManager
	defaults        models.Defaults
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса машин
func NewService(
	machineRepo MachineRepository,
	hostelRepo HostelRepository,
	reservationRepo ReservationRepository,
	walletRepo WalletRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	defaults models.Defaults,
	logger Logger,
) *Service {
	return &Service{
		machineRepo:     machineRepo,
		hostelRepo:      hostelRepo,
		reservationRepo: reservationRepo,
		walletRepo:      walletRepo,
		publisher:       publisher,
		txManager:       txManager,
		defaults:        defaults,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Create создает машину в общежитии
func (s *Service) Create(ctx context.Context, req *models.CreateMachineRequest) (*models.MachineResponse, error) {
	s.logger.Info("Create: creating machine name=%q in hostel=%d", req.Name, req.HostelID)

	// 1. Собираем модель с учётом значений по умолчанию
	machine, err := req.ToDomainMachine(s.defaults)
	if err != nil {
		s.logger.Warn("Create: invalid machine parameters: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Валидируем
	if err := validateMachine(machine); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем существование общежития
	if _, err := s.hostelRepo.GetByID(ctx, req.HostelID); err != nil {
		if errors.Is(err, hostelRepo.ErrHostelNotFound) {
			s.logger.Warn("Create: hostel id=%d not found", req.HostelID)
			return nil, ErrHostelNotFound
		}
		s.logger.Error("Create: failed to get hostel id=%d: %v", req.HostelID, err)
		return nil, fmt.Errorf("%w: Create - get hostel: %v", ErrInternal, err)
	}

	// 4. Сохраняем
	created, err := s.machineRepo.Create(ctx, machine)
	if err != nil {
		if errors.Is(err, machineRepo.ErrHostelNotFound) {
			return nil, ErrHostelNotFound
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: machine id=%d created in hostel=%d", created.ID, created.HostelID)
	return models.FromDomainMachine(created), nil
}

// GetByID получает машину по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.MachineResponse, error) {
	machine, err := s.machineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, machineRepo.ErrMachineNotFound) {
			s.logger.Warn("GetByID: machine id=%d not found", id)
			return nil, ErrMachineNotFound
		}
		s.logger.Error("GetByID: repository error for machine id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainMachine(machine), nil
}

// List получает машины с фильтрацией по общежитию и статусу
func (s *Service) List(ctx context.Context, req *models.ListMachinesRequest) (*models.MachineListResponse, error) {
	filter := domain.MachinesFilter{HostelID: req.HostelID}

	if req.Status != nil {
		status := domain.MachineStatus(*req.Status)
		if !status.IsValid() {
			s.logger.Warn("List: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	machines, err := s.machineRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainMachineList(machines), nil
}

// UpdateStatus меняет статус машины и записывает строку истории.
// Перевод в maintenance или offline отменяет все подтверждённые незавершившиеся
// бронирования машины с полным возвратом средств в той же транзакции.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, req *models.UpdateStatusRequest) (*models.UpdateStatusResponse, error) {
	s.logger.Info("UpdateStatus: machine id=%d to status=%s by user=%d", id, req.Status, actor.UserID)

	status := domain.MachineStatus(req.Status)
	if !status.IsValid() {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if req.Note != nil && utf8.RuneCountInString(*req.Note) > domain.MaxNoteLength {
		return nil, fmt.Errorf("%w: note is too long", ErrInvalidInput)
	}

	now := s.timeProvider.Now()

	var (
		machine   *domain.Machine
		cancelled []*domain.Reservation
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем машину, чтобы не пересечься с созданием бронирований
		var err error
		machine, err = s.machineRepo.LockByID(txCtx, id)
		if err != nil {
			if errors.Is(err, machineRepo.ErrMachineNotFound) {
				return ErrMachineNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - lock machine: %v", ErrInternal, err)
		}

		from := machine.Status

		// 2. Обновляем статус
		if err := s.machineRepo.UpdateStatus(txCtx, id, status, now); err != nil {
			if errors.Is(err, machineRepo.ErrMachineNotFound) {
				return ErrMachineNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - update machine: %v", ErrInternal, err)
		}
		machine.Status = status
		machine.UpdatedAt = now

		// 3. Снимаем бронирования, если машина выводится из работы
		if status.TakesOutOfService() {
			cancelled, err = s.cancelFutureReservations(txCtx, id)
			if err != nil {
				return err
			}
		}

		// 4. Записываем историю
		_, err = s.machineRepo.AddStatusChange(txCtx, &domain.MachineStatusChange{
			MachineID:             id,
			FromStatus:            from,
			ToStatus:              status,
			ChangedBy:             ptr.Ptr(actor.UserID),
			Note:                  req.Note,
			CancelledReservations: len(cancelled),
		})
		if err != nil {
			return fmt.Errorf("%w: UpdateStatus - write history: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrMachineNotFound) {
			s.logger.Warn("UpdateStatus: machine id=%d not found", id)
			return nil, err
		}
		s.logger.Error("UpdateStatus: transaction failed for machine id=%d: %v", id, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: UpdateStatus - transaction: %v", ErrInternal, err)
	}

	ids := make([]int64, 0, len(cancelled))
	for _, res := range cancelled {
		ids = append(ids, res.ID)
		s.publisher.PublishReservation(ctx, eventbus.ReservationCancelled, res)
	}

	s.logger.Info("UpdateStatus: machine id=%d is now %s, cancelled %d bookings", id, status, len(cancelled))

	return &models.UpdateStatusResponse{
		Machine:             *models.FromDomainMachine(machine),
		CancelledBookingIDs: ids,
	}, nil
}

// Delete мягко удаляет машину. Машину с предстоящими подтверждёнными бронированиями удалить нельзя.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting machine id=%d", id)

	now := s.timeProvider.Now()

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.machineRepo.LockByID(txCtx, id); err != nil {
			if errors.Is(err, machineRepo.ErrMachineNotFound) {
				return ErrMachineNotFound
			}
			return fmt.Errorf("%w: Delete - lock machine: %v", ErrInternal, err)
		}

		active, err := s.reservationRepo.CountFutureConfirmedByMachine(txCtx, id, now)
		if err != nil {
			return fmt.Errorf("%w: Delete - count bookings: %v", ErrInternal, err)
		}
		if active > 0 {
			s.logger.Warn("Delete: machine id=%d has %d active bookings", id, active)
			return ErrHasActiveBookings
		}

		if err := s.machineRepo.SoftDelete(txCtx, id, now); err != nil {
			if errors.Is(err, machineRepo.ErrMachineNotFound) {
				return ErrMachineNotFound
			}
			return fmt.Errorf("%w: Delete - soft delete: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrMachineNotFound) || errors.Is(err, ErrHasActiveBookings) {
			return err
		}
		s.logger.Error("Delete: transaction failed for machine id=%d: %v", id, err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: Delete - transaction: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: machine id=%d deleted", id)
	return nil
}

// MaintenanceHistory возвращает историю статусов машины, сначала новые
func (s *Service) MaintenanceHistory(ctx context.Context, id int64) (*models.StatusHistoryResponse, error) {
	if _, err := s.machineRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, machineRepo.ErrMachineNotFound) {
			s.logger.Warn("MaintenanceHistory: machine id=%d not found", id)
			return nil, ErrMachineNotFound
		}
		return nil, fmt.Errorf("%w: MaintenanceHistory - get machine: %v", ErrInternal, err)
	}

	changes, err := s.machineRepo.ListStatusChanges(ctx, id, maxHistoryRows)
	if err != nil {
		s.logger.Error("MaintenanceHistory: repository error for machine id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: MaintenanceHistory - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStatusChanges(id, changes), nil
}

// cancelFutureReservations отменяет подтверждённые незавершившиеся бронирования машины
// от имени системы и возвращает средства владельцам. Вызывается внутри транзакции.
func (s *Service) cancelFutureReservations(ctx context.Context, machineID int64) ([]*domain.Reservation, error) {
	now := s.timeProvider.Now()

	reservations, err := s.reservationRepo.ListFutureConfirmedByMachine(ctx, machineID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: list bookings to cancel: %v", ErrInternal, err)
	}

	cancelled := make([]*domain.Reservation, 0, len(reservations))
	for _, res := range reservations {
		updated, err := s.reservationRepo.Cancel(ctx, res.ID, nil, domain.CancelReasonMaintenance, now)
		if err != nil {
			return nil, fmt.Errorf("%w: cancel booking id=%d: %v", ErrInternal, res.ID, err)
		}

		balance, err := s.walletRepo.Credit(ctx, updated.UserID, updated.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: refund booking id=%d: %v", ErrInternal, res.ID, err)
		}

		_, err = s.walletRepo.AddTransaction(ctx, &domain.WalletTransaction{
			UserID:        updated.UserID,
			Type:          domain.WalletRefund,
			Amount:        updated.Amount,
			BalanceAfter:  balance,
			ReservationID: ptr.Ptr(updated.ID),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: write refund ledger for booking id=%d: %v", ErrInternal, res.ID, err)
		}

		cancelled = append(cancelled, updated)
	}

	return cancelled, nil
}

func validateMachine(m *domain.Machine) error {
	name := strings.TrimSpace(m.Name)
	if name == "" || utf8.RuneCountInString(name) > domain.MaxMachineNameLen {
		return fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, domain.MaxMachineNameLen)
	}
	m.Name = name

	if m.HostelID <= 0 {
		return fmt.Errorf("%w: hostelId must be positive", ErrInvalidInput)
	}
	if m.CycleMinutes <= 0 {
		return fmt.Errorf("%w: cycleMinutes must be positive", ErrInvalidInput)
	}
	if m.CostPerCycle.IsNegative() {
		return fmt.Errorf("%w: costPerCycle must not be negative", ErrInvalidInput)
	}
	if !m.OpenTime.IsBefore(m.CloseTime) {
		return fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
	}

	return nil
}
