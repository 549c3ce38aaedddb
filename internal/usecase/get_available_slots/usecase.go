package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	machineRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/machine"
)

// UseCase use case для получения свободных интервалов машины на день.
// Результат носит рекомендательный характер: окончательную проверку делает создание бронирования.
type UseCase struct {
	machineRepo     MachineRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	location        *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	machineRepo MachineRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		machineRepo:     machineRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		location:        location,
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных интервалов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: machine=%d, date=%s", req.MachineID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	var response *Response

	// 2. Читаем машину и бронирования из одного снимка, без блокировок
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем машину
		machine, err := uc.machineRepo.GetByID(txCtx, req.MachineID)
		if err != nil {
			if errors.Is(err, machineRepo.ErrMachineNotFound) {
				uc.logger.Warn("GetAvailableSlots: machine id=%d not found", req.MachineID)
				return ErrMachineNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get machine id=%d: %v", req.MachineID, err)
			return fmt.Errorf("%w: failed to get machine: %v", ErrStorage, err)
		}

		if !machine.IsBookable() {
			uc.logger.Info("GetAvailableSlots: machine id=%d is %s", machine.ID, machine.Status)
			return fmt.Errorf("%w: status is %s", ErrMachineUnavailable, machine.Status)
		}

		// 2.2. Окно работы машины на указанный день
		window, err := machine.WindowOn(req.Date, uc.location)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: invalid window for machine id=%d: %v", machine.ID, err)
			return fmt.Errorf("%w: invalid operating window: %v", ErrStorage, err)
		}

		// 2.3. Получаем бронирования, пересекающиеся с окном
		reservations, err := uc.reservationRepo.ListOccupying(txCtx, machine.ID, window)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
			return fmt.Errorf("%w: failed to get reservations: %v", ErrStorage, err)
		}

		// 2.4. Делим окно на занятые и свободные интервалы
		free, busy := splitWindow(window, reservations)

		response = &Response{
			Date:      req.Date,
			MachineID: machine.ID,
			Window:    window,
			Free:      free,
			Busy:      busy,
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrMachineNotFound) ||
			errors.Is(err, ErrMachineUnavailable) || errors.Is(err, ErrStorage) {
			return nil, err
		}
		uc.logger.Error("GetAvailableSlots: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	uc.logger.Info("GetAvailableSlots: machine=%d, date=%s: %d free, %d busy intervals",
		req.MachineID, req.Date.Format(domain.DateFormat), len(response.Free), len(response.Busy))

	return response, nil
}
