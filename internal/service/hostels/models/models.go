package models

import (
	"time"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

// CreateHostelRequest запрос на создание общежития
type CreateHostelRequest struct {
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
}

// HostelResponse ответ с данными общежития
type HostelResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HostelListResponse ответ со списком общежитий
type HostelListResponse struct {
	Hostels []HostelResponse `json:"hostels"`
}

// FromDomainHostel конвертирует domain модель в DTO
func FromDomainHostel(h *domain.Hostel) *HostelResponse {
	if h == nil {
		return nil
	}
	return &HostelResponse{
		ID:        h.ID,
		Name:      h.Name,
		Address:   h.Address,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

// FromDomainHostelList конвертирует список domain моделей в DTO
func FromDomainHostelList(hostels []*domain.Hostel) *HostelListResponse {
	resp := &HostelListResponse{
		Hostels: make([]HostelResponse, 0, len(hostels)),
	}
	for _, h := range hostels {
		if hr := FromDomainHostel(h); hr != nil {
			resp.Hostels = append(resp.Hostels, *hr)
		}
	}
	return resp
}
