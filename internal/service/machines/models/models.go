package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/pkg/types"
)

// Defaults значения по умолчанию для новых машин (из секции booking конфига)
type Defaults struct {
	CycleMinutes int
	CostPerCycle decimal.Decimal
	OpenTime     types.TimeString
	CloseTime    types.TimeString
}

// Request модели

// CreateMachineRequest запрос на создание машины.
// Не указанные параметры берутся из Defaults.
type CreateMachineRequest struct {
	HostelID     int64   `json:"hostelId"`
	Name         string  `json:"name"`
	CycleMinutes *int    `json:"cycleMinutes,omitempty"`
	CostPerCycle *string `json:"costPerCycle,omitempty"` // "10.00"
	OpenTime     *string `json:"openTime,omitempty"`     // "08:00"
	CloseTime    *string `json:"closeTime,omitempty"`    // "22:00"
}

// ListMachinesRequest запрос на получение списка машин
type ListMachinesRequest struct {
	HostelID *int64
	Status   *string
}

// UpdateStatusRequest запрос на изменение статуса машины
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
}

// Response модели

// MachineResponse ответ с данными машины
type MachineResponse struct {
	ID           int64     `json:"id"`
	HostelID     int64     `json:"hostelId"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	CycleMinutes int       `json:"cycleMinutes"`
	CostPerCycle string    `json:"costPerCycle"`
	OpenTime     string    `json:"openTime"`
	CloseTime    string    `json:"closeTime"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MachineListResponse ответ со списком машин
type MachineListResponse struct {
	Machines []MachineResponse `json:"machines"`
}

// UpdateStatusResponse ответ на изменение статуса.
// CancelledBookingIDs заполнен, если перевод в обслуживание отменил бронирования.
type UpdateStatusResponse struct {
	Machine             MachineResponse `json:"machine"`
	CancelledBookingIDs []int64         `json:"cancelledBookingIds"`
}

// StatusChangeResponse строка истории статусов
type StatusChangeResponse struct {
	ID                    int64     `json:"id"`
	FromStatus            string    `json:"fromStatus"`
	ToStatus              string    `json:"toStatus"`
	ChangedBy             *int64    `json:"changedBy,omitempty"`
	Note                  *string   `json:"note,omitempty"`
	CancelledReservations int       `json:"cancelledReservations"`
	CreatedAt             time.Time `json:"createdAt"`
}

// StatusHistoryResponse история статусов машины
type StatusHistoryResponse struct {
	MachineID int64                  `json:"machineId"`
	History   []StatusChangeResponse `json:"history"`
}

// Методы конвертации

// FromDomainMachine конвертирует domain модель в DTO
func FromDomainMachine(m *domain.Machine) *MachineResponse {
	if m == nil {
		return nil
	}

	return &MachineResponse{
		ID:           m.ID,
		HostelID:     m.HostelID,
		Name:         m.Name,
		Status:       string(m.Status),
		CycleMinutes: m.CycleMinutes,
		CostPerCycle: m.CostPerCycle.StringFixed(2),
		OpenTime:     m.OpenTime.String(),
		CloseTime:    m.CloseTime.String(),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomainMachineList конвертирует список domain моделей в DTO
func FromDomainMachineList(machines []*domain.Machine) *MachineListResponse {
	resp := &MachineListResponse{
		Machines: make([]MachineResponse, 0, len(machines)),
	}

	for _, m := range machines {
		if mr := FromDomainMachine(m); mr != nil {
			resp.Machines = append(resp.Machines, *mr)
		}
	}

	return resp
}

// FromDomainStatusChanges конвертирует историю статусов в DTO
func FromDomainStatusChanges(machineID int64, changes []*domain.MachineStatusChange) *StatusHistoryResponse {
	resp := &StatusHistoryResponse{
		MachineID: machineID,
		History:   make([]StatusChangeResponse, 0, len(changes)),
	}

	for _, c := range changes {
		resp.History = append(resp.History, StatusChangeResponse{
			ID:                    c.ID,
			FromStatus:            string(c.FromStatus),
			ToStatus:              string(c.ToStatus),
			ChangedBy:             c.ChangedBy,
			Note:                  c.Note,
			CancelledReservations: c.CancelledReservations,
			CreatedAt:             c.CreatedAt,
		})
	}

	return resp
}

// ToDomainMachine конвертирует запрос в domain модель, подставляя значения по умолчанию
func (r *CreateMachineRequest) ToDomainMachine(defaults Defaults) (*domain.Machine, error) {
	m := &domain.Machine{
		HostelID:     r.HostelID,
		Name:         r.Name,
		Status:       domain.MachineAvailable,
		CycleMinutes: defaults.CycleMinutes,
		CostPerCycle: defaults.CostPerCycle,
		OpenTime:     defaults.OpenTime,
		CloseTime:    defaults.CloseTime,
	}

	if r.CycleMinutes != nil {
		m.CycleMinutes = *r.CycleMinutes
	}

	if r.CostPerCycle != nil {
		cost, err := decimal.NewFromString(*r.CostPerCycle)
		if err != nil {
			return nil, err
		}
		m.CostPerCycle = cost
	}

	if r.OpenTime != nil {
		t, err := types.NewTimeStringFromString(*r.OpenTime)
		if err != nil {
			return nil, err
		}
		m.OpenTime = t
	}

	if r.CloseTime != nil {
		t, err := types.NewTimeStringFromString(*r.CloseTime)
		if err != nil {
			return nil, err
		}
		m.CloseTime = t
	}

	return m, nil
}
