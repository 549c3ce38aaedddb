package hostels

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	hostelRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/hostel"
	"github.com/m04kA/LaundryBookingService/internal/service/hostels/models"
)

// Service сервис для работы с общежитиями
type Service struct {
	hostelRepo HostelRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса общежитий
func NewService(hostelRepo HostelRepository, logger Logger) *Service {
	return &Service{
		hostelRepo: hostelRepo,
		logger:     logger,
	}
}

// Create создает общежитие
func (s *Service) Create(ctx context.Context, req *models.CreateHostelRequest) (*models.HostelResponse, error) {
	name := strings.TrimSpace(req.Name)
	s.logger.Info("Create: creating hostel name=%q", name)

	if name == "" || utf8.RuneCountInString(name) > domain.MaxHostelNameLen {
		s.logger.Warn("Create: invalid hostel name length")
		return nil, fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, domain.MaxHostelNameLen)
	}

	created, err := s.hostelRepo.Create(ctx, &domain.Hostel{Name: name, Address: req.Address})
	if err != nil {
		if errors.Is(err, hostelRepo.ErrDuplicateName) {
			s.logger.Warn("Create: hostel name=%q already exists", name)
			return nil, ErrDuplicateName
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: hostel id=%d created", created.ID)
	return models.FromDomainHostel(created), nil
}

// GetByID получает общежитие по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.HostelResponse, error) {
	hostel, err := s.hostelRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, hostelRepo.ErrHostelNotFound) {
			s.logger.Warn("GetByID: hostel id=%d not found", id)
			return nil, ErrHostelNotFound
		}
		s.logger.Error("GetByID: repository error for hostel id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainHostel(hostel), nil
}

// List возвращает все общежития
func (s *Service) List(ctx context.Context) (*models.HostelListResponse, error) {
	hostels, err := s.hostelRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainHostelList(hostels), nil
}
