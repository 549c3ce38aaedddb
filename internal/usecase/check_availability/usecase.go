package check_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	machineRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/machine"
	reservationRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/LaundryBookingService/pkg/ptr"
)

// UseCase use case проверки, свободен ли интервал [start, start+duration) на машине
type UseCase struct {
	machineRepo        MachineRepository
	reservationRepo    ReservationRepository
	txManager          TransactionManager
	location           *time.Location
	maxDurationMinutes int
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	machineRepo MachineRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	location *time.Location,
	maxDurationMinutes int,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		machineRepo:        machineRepo,
		reservationRepo:    reservationRepo,
		txManager:          txManager,
		location:           location,
		maxDurationMinutes: maxDurationMinutes,
		logger:             logger,
	}
}

// Execute выполняет проверку доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: machine=%d, start=%s, duration=%d",
		req.MachineID, req.StartTime.Format(time.RFC3339), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxDurationMinutes); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	interval := domain.NewInterval(req.StartTime, req.DurationMinutes)
	response := &Response{
		MachineID: req.MachineID,
		StartTime: interval.Start,
		EndTime:   interval.End,
	}

	// 2. Проверяем машину и пересечения в одном снимке
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		machine, err := uc.machineRepo.GetByID(txCtx, req.MachineID)
		if err != nil {
			if errors.Is(err, machineRepo.ErrMachineNotFound) {
				uc.logger.Warn("CheckAvailability: machine id=%d not found", req.MachineID)
				return ErrMachineNotFound
			}
			return fmt.Errorf("%w: failed to get machine: %v", ErrStorage, err)
		}

		if err := validateMachine(machine, interval, uc.location); err != nil {
			uc.logger.Warn("CheckAvailability: machine id=%d rejected: %v", req.MachineID, err)
			return err
		}

		existing, err := uc.reservationRepo.FindOverlapping(txCtx, machine.ID, interval)
		switch {
		case err == nil:
			response.ConflictingReservationID = ptr.Ptr(existing.ID)
		case errors.Is(err, reservationRepo.ErrReservationNotFound):
			response.Available = true
		default:
			return fmt.Errorf("%w: failed to check overlaps: %v", ErrStorage, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrStorage) {
			uc.logger.Error("CheckAvailability: %v", err)
		}
		if errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrOutOfWindow) ||
			errors.Is(err, ErrMachineNotFound) || errors.Is(err, ErrMachineUnavailable) ||
			errors.Is(err, ErrStorage) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return response, nil
}
