package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	messageRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/message"
	userRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/user"
	"github.com/m04kA/LaundryBookingService/internal/service/messages/models"
)

// Service сервис личных сообщений между студентами и персоналом
type Service struct {
	messageRepo  MessageRepository
	userRepo     UserRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса сообщений
func NewService(messageRepo MessageRepository, userRepo UserRepository, logger Logger) *Service {
	return &Service{
		messageRepo:  messageRepo,
		userRepo:     userRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Send отправляет сообщение. Студенты пишут только персоналу, персонал - кому угодно.
func (s *Service) Send(ctx context.Context, actor domain.Actor, req *models.SendMessageRequest) (*models.MessageResponse, error) {
	s.logger.Info("Send: user=%d sends message to user=%d", actor.UserID, req.RecipientID)

	// 1. Валидация
	length := utf8.RuneCountInString(strings.TrimSpace(req.Content))
	if length < domain.MinMessageLength || utf8.RuneCountInString(req.Content) > domain.MaxMessageLength {
		s.logger.Warn("Send: invalid content length=%d", length)
		return nil, fmt.Errorf("%w: content must be %d..%d characters",
			ErrInvalidInput, domain.MinMessageLength, domain.MaxMessageLength)
	}
	if req.RecipientID == actor.UserID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrInvalidInput)
	}

	// 2. Получатель должен существовать
	recipient, err := s.userRepo.GetByID(ctx, req.RecipientID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Send: recipient id=%d not found", req.RecipientID)
			return nil, ErrRecipientNotFound
		}
		s.logger.Error("Send: failed to get recipient id=%d: %v", req.RecipientID, err)
		return nil, fmt.Errorf("%w: Send - get recipient: %v", ErrInternal, err)
	}

	// 3. Студент может писать только персоналу
	if !actor.Role.IsStaff() && !recipient.Role.IsStaff() {
		s.logger.Warn("Send: student=%d cannot message student=%d", actor.UserID, recipient.ID)
		return nil, ErrAccessDenied
	}

	// 4. Сохраняем
	created, err := s.messageRepo.Create(ctx, &domain.Message{
		SenderID:    actor.UserID,
		RecipientID: recipient.ID,
		Content:     req.Content,
	})
	if err != nil {
		if errors.Is(err, messageRepo.ErrRecipientNotFound) {
			return nil, ErrRecipientNotFound
		}
		s.logger.Error("Send: repository error: %v", err)
		return nil, fmt.Errorf("%w: Send - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Send: message id=%d sent", created.ID)

	resp := models.FromDomainMessage(created)
	return &resp, nil
}

// Conversation возвращает переписку текущего пользователя с otherID
func (s *Service) Conversation(ctx context.Context, actor domain.Actor, otherID int64, limit int) (*models.ConversationResponse, error) {
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}
	if limit > domain.MaxListLimit {
		limit = domain.MaxListLimit
	}

	messages, err := s.messageRepo.ListConversation(ctx, actor.UserID, otherID, limit)
	if err != nil {
		s.logger.Error("Conversation: repository error for users %d and %d: %v", actor.UserID, otherID, err)
		return nil, fmt.Errorf("%w: Conversation - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConversation(otherID, messages), nil
}

// MarkRead помечает прочитанными сообщения от senderID текущему пользователю
func (s *Service) MarkRead(ctx context.Context, actor domain.Actor, senderID int64) (*models.MarkReadResponse, error) {
	marked, err := s.messageRepo.MarkConversationRead(ctx, actor.UserID, senderID, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("MarkRead: repository error for reader=%d sender=%d: %v", actor.UserID, senderID, err)
		return nil, fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("MarkRead: marked %d messages from user=%d as read by user=%d", marked, senderID, actor.UserID)
	return &models.MarkReadResponse{Marked: marked}, nil
}

// UnreadCount возвращает количество непрочитанных сообщений текущего пользователя
func (s *Service) UnreadCount(ctx context.Context, actor domain.Actor) (*models.UnreadCountResponse, error) {
	count, err := s.messageRepo.CountUnread(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("UnreadCount: repository error for user=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: UnreadCount - repository error: %v", ErrInternal, err)
	}

	return &models.UnreadCountResponse{Unread: count}, nil
}
