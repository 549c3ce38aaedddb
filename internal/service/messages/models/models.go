package models

import (
	"time"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

// SendMessageRequest запрос на отправку сообщения
type SendMessageRequest struct {
	RecipientID int64  `json:"recipientId"`
	Content     string `json:"content"`
}

// MessageResponse ответ с данными сообщения
type MessageResponse struct {
	ID          int64      `json:"id"`
	SenderID    int64      `json:"senderId"`
	RecipientID int64      `json:"recipientId"`
	Content     string     `json:"content"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ConversationResponse переписка с пользователем в хронологическом порядке
type ConversationResponse struct {
	UserID   int64             `json:"userId"`
	Messages []MessageResponse `json:"messages"`
}

// MarkReadResponse ответ на пометку переписки прочитанной
type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}

// UnreadCountResponse количество непрочитанных сообщений
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

// FromDomainMessage конвертирует domain модель в DTO
func FromDomainMessage(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomainConversation конвертирует переписку в DTO
func FromDomainConversation(userID int64, messages []*domain.Message) *ConversationResponse {
	resp := &ConversationResponse{
		UserID:   userID,
		Messages: make([]MessageResponse, 0, len(messages)),
	}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, FromDomainMessage(m))
	}
	return resp
}
