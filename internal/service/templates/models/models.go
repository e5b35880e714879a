package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модели

// BaseSlot границы базового слота
type BaseSlot struct {
	Start string `json:"start" validate:"required,hhmm"`
	End   string `json:"end" validate:"required,hhmm"`
}

// UpsertTemplateRequest запрос на создание или замену шаблона сущности
type UpsertTemplateRequest struct {
	EntityID   string     `json:"-"`
	EntityKind string     `json:"-"`
	BaseSlots  []BaseSlot `json:"baseSlots" validate:"required,min=1,max=288,dive"`
	Weekdays   []string   `json:"weekdays,omitempty" validate:"omitempty,dive,weekday"` // пусто = каждый день
	WindowDays int        `json:"windowDays" validate:"gte=0,lte=366"`                  // 0 = окно из конфигурации сидера
	IsActive   *bool      `json:"isActive,omitempty"`                                   // по умолчанию true
}

// Response модели

// TemplateResponse ответ с данными шаблона
type TemplateResponse struct {
	ID         int64      `json:"id"`
	EntityID   string     `json:"entityId"`
	EntityKind string     `json:"entityKind"`
	BaseSlots  []BaseSlot `json:"baseSlots"`
	Weekdays   []string   `json:"weekdays"`
	WindowDays int        `json:"windowDays"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Методы конвертации

// FromDomainTemplate конвертирует domain модель в DTO
func FromDomainTemplate(t *domain.Template) *TemplateResponse {
	if t == nil {
		return nil
	}

	slots := make([]BaseSlot, 0, len(t.BaseSlots))
	for _, s := range t.BaseSlots {
		slots = append(slots, BaseSlot{Start: s.Start.String(), End: s.End.String()})
	}

	return &TemplateResponse{
		ID:         t.ID,
		EntityID:   t.EntityID,
		EntityKind: string(t.EntityKind),
		BaseSlots:  slots,
		Weekdays:   types.WeekdayNames(t.Weekdays),
		WindowDays: t.WindowDays,
		IsActive:   t.IsActive,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// ToDomainTemplate конвертирует запрос в domain модель с проверкой слотов и дней недели
func (r *UpsertTemplateRequest) ToDomainTemplate() (*domain.Template, error) {
	kind, err := domain.ParseEntityKind(r.EntityKind)
	if err != nil {
		return nil, err
	}
	if r.EntityID == "" {
		return nil, domain.ErrEmptyEntityID
	}

	base := make([]domain.BaseSlot, 0, len(r.BaseSlots))
	for _, s := range r.BaseSlots {
		base = append(base, domain.BaseSlot{Start: types.TimeString(s.Start), End: types.TimeString(s.End)})
	}
	if err := domain.ValidateBaseSlots(base); err != nil {
		return nil, err
	}

	weekdays, err := types.ParseWeekdays(r.Weekdays)
	if err != nil {
		return nil, err
	}

	if r.WindowDays < 0 || r.WindowDays > domain.MaxRangeDays {
		return nil, fmt.Errorf("windowDays must be between 0 and %d", domain.MaxRangeDays)
	}

	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	return &domain.Template{
		EntityID:   r.EntityID,
		EntityKind: kind,
		BaseSlots:  base,
		Weekdays:   weekdays,
		WindowDays: r.WindowDays,
		IsActive:   isActive,
	}, nil
}
