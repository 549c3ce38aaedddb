package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	machineRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/machine"
	reservationRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/reservation"
	walletRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/wallet"
	"github.com/m04kA/LaundryBookingService/internal/integrations/eventbus"
	"github.com/m04kA/LaundryBookingService/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	machineRepo     MachineRepository
	reservationRepo ReservationRepository
	walletRepo      WalletRepository
	codes           CodeGenerator
	publisher       EventPublisher
	txManager       TransactionManager
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	machineRepo MachineRepository,
	reservationRepo ReservationRepository,
	walletRepo WalletRepository,
	codes CodeGenerator,
	publisher EventPublisher,
	txManager TransactionManager,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &UseCase{
		machineRepo:     machineRepo,
		reservationRepo: reservationRepo,
		walletRepo:      walletRepo,
		codes:           codes,
		publisher:       publisher,
		txManager:       txManager,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Проверка пересечений, списание средств и вставка выполняются в одной транзакции
// под блокировкой строки машины, поэтому параллельные запросы на одну машину сериализуются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, machine=%d, start=%s, duration=%d",
		req.Actor.UserID, req.MachineID, req.StartTime.Format(time.RFC3339), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.settings.MaxDurationMinutes); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	if err := validateNotInPast(req.StartTime, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	interval := domain.NewInterval(req.StartTime, req.DurationMinutes)

	var (
		result   *domain.Reservation
		response *Response
	)

	// 3. Выполняем проверку и запись в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем машину: все создания бронирований на неё выстраиваются в очередь
		machine, err := uc.machineRepo.LockByID(txCtx, req.MachineID)
		if err != nil {
			if errors.Is(err, machineRepo.ErrMachineNotFound) {
				uc.logger.Warn("CreateBooking: machine id=%d not found", req.MachineID)
				return ErrMachineNotFound
			}
			uc.logger.Error("CreateBooking: failed to lock machine id=%d: %v", req.MachineID, err)
			return fmt.Errorf("%w: failed to lock machine: %v", ErrStorage, err)
		}

		// 3.2. Статус машины и окно работы
		if err := validateMachine(machine, interval, uc.settings.Location); err != nil {
			uc.logger.Warn("CreateBooking: machine id=%d rejected: %v", req.MachineID, err)
			return err
		}

		// 3.3. Проверяем пересечение с существующими бронированиями
		existing, err := uc.reservationRepo.FindOverlapping(txCtx, machine.ID, interval)
		switch {
		case err == nil:
			uc.logger.Warn("CreateBooking: interval conflicts with reservation id=%d", existing.ID)
			return &ConflictError{ReservationID: existing.ID}
		case !errors.Is(err, reservationRepo.ErrReservationNotFound):
			uc.logger.Error("CreateBooking: failed to check overlaps: %v", err)
			return fmt.Errorf("%w: failed to check overlaps: %v", ErrStorage, err)
		}

		// 3.4. Списываем стоимость с кошелька
		amount := machine.PriceFor(req.DurationMinutes)
		balance, err := uc.walletRepo.Debit(txCtx, req.Actor.UserID, amount)
		if err != nil {
			switch {
			case errors.Is(err, walletRepo.ErrInsufficientFunds):
				uc.logger.Warn("CreateBooking: user id=%d has insufficient funds for amount=%s",
					req.Actor.UserID, amount.StringFixed(2))
				return ErrInsufficientFunds
			case errors.Is(err, walletRepo.ErrUserNotFound):
				uc.logger.Warn("CreateBooking: user id=%d not found", req.Actor.UserID)
				return ErrUserNotFound
			}
			uc.logger.Error("CreateBooking: failed to debit wallet: %v", err)
			return fmt.Errorf("%w: failed to debit wallet: %v", ErrStorage, err)
		}

		// 3.5. Генерируем код доступа, не совпадающий с активными кодами этой машины
		code, err := uc.generateAccessCode(txCtx, machine.ID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to generate access code: %v", err)
			return err
		}

		// 3.6. Сохраняем бронирование
		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			UserID:          req.Actor.UserID,
			MachineID:       machine.ID,
			StartTime:       interval.Start,
			DurationMinutes: req.DurationMinutes,
			EndTime:         interval.End,
			Amount:          amount,
			Status:          domain.ReservationConfirmed,
			AccessCode:      code,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrOverlap) {
				uc.logger.Warn("CreateBooking: exclusion constraint rejected interval on machine id=%d", machine.ID)
				return ErrConflict
			}
			uc.logger.Error("CreateBooking: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrStorage, err)
		}

		// 3.7. Записываем операцию в журнал кошелька
		_, err = uc.walletRepo.AddTransaction(txCtx, &domain.WalletTransaction{
			UserID:        req.Actor.UserID,
			Type:          domain.WalletBookingDebit,
			Amount:        amount.Neg(),
			BalanceAfter:  balance,
			ReservationID: ptr.Ptr(created.ID),
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to write wallet ledger: %v", err)
			return fmt.Errorf("%w: failed to write wallet ledger: %v", ErrStorage, err)
		}

		result = created
		response = toResponse(created)
		response.BalanceAfter = balance
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, uc.resolveConflict(ctx, req.MachineID, interval, err)
		}
		if isDomainError(err) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	uc.logger.Info("CreateBooking: successfully created reservation id=%d, amount=%s",
		result.ID, result.Amount.StringFixed(2))

	// 4. Публикуем событие после фиксации транзакции
	uc.publisher.PublishReservation(ctx, eventbus.ReservationCreated, result)

	return response, nil
}

// generateAccessCode генерирует код и перегенерирует его, пока он совпадает с активным кодом этой машины
func (uc *UseCase) generateAccessCode(ctx context.Context, machineID int64) (string, error) {
	for attempt := 1; attempt <= uc.settings.AccessCodeAttempts; attempt++ {
		code, err := uc.codes.Generate()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrStorage, err)
		}

		inUse, err := uc.reservationRepo.AccessCodeInUse(ctx, machineID, code)
		if err != nil {
			return "", fmt.Errorf("%w: failed to check access code: %v", ErrStorage, err)
		}
		if !inUse {
			return code, nil
		}

		uc.logger.Warn("CreateBooking: access code collision on machine id=%d, attempt %d", machineID, attempt)
	}

	return "", fmt.Errorf("%w: no free access code after %d attempts", ErrStorage, uc.settings.AccessCodeAttempts)
}

// resolveConflict дополняет конфликт, обнаруженный ограничением БД, ID победившего бронирования
func (uc *UseCase) resolveConflict(ctx context.Context, machineID int64, interval domain.Interval, err error) error {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict
	}

	existing, findErr := uc.reservationRepo.FindOverlapping(ctx, machineID, interval)
	if findErr != nil {
		uc.logger.Warn("CreateBooking: failed to resolve conflicting reservation: %v", findErr)
		return &ConflictError{}
	}
	return &ConflictError{ReservationID: existing.ID}
}

// isDomainError проверяет, что ошибка относится к ожидаемым ошибкам use case
func isDomainError(err error) bool {
	for _, target := range []error{
		ErrInvalidRequest,
		ErrOutOfWindow,
		ErrMachineUnavailable,
		ErrMachineNotFound,
		ErrUserNotFound,
		ErrInsufficientFunds,
		ErrStorage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func toResponse(res *domain.Reservation) *Response {
	return &Response{
		ID:              res.ID,
		UserID:          res.UserID,
		MachineID:       res.MachineID,
		StartTime:       res.StartTime,
		EndTime:         res.EndTime,
		DurationMinutes: res.DurationMinutes,
		Amount:          res.Amount,
		Status:          string(res.Status),
		AccessCode:      res.AccessCode,
		CreatedAt:       res.CreatedAt,
	}
}
