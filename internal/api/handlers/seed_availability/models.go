package seed_availability

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	seedAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/seed_availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// BaseSlot границы базового слота
type BaseSlot struct {
	Start string `json:"start" validate:"required,hhmm"`
	End   string `json:"end" validate:"required,hhmm"`
}

// SeedAvailabilityRequest HTTP request model
type SeedAvailabilityRequest struct {
	From      string     `json:"from" validate:"required,datetime=2006-01-02"`
	To        string     `json:"to" validate:"required,datetime=2006-01-02"`
	BaseSlots []BaseSlot `json:"baseSlots" validate:"required,min=1,max=288,dive"`
	Weekdays  []string   `json:"weekdays,omitempty" validate:"omitempty,max=7,dive,weekday"` // пусто = каждый день
}

// CreatedRecordResponse созданная запись
type CreatedRecordResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

// SeedAvailabilityResponse HTTP response model
type SeedAvailabilityResponse struct {
	Created []CreatedRecordResponse `json:"created"`
	Skipped []string                `json:"skipped"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SeedAvailabilityRequest) ToUseCaseRequest(path handlers.EntityPath) (*seedAvailability.Request, error) {
	from, err := types.ParseDate(r.From)
	if err != nil {
		return nil, err
	}
	to, err := types.ParseDate(r.To)
	if err != nil {
		return nil, err
	}
	weekdays, err := types.ParseWeekdays(r.Weekdays)
	if err != nil {
		return nil, err
	}

	base := make([]domain.BaseSlot, 0, len(r.BaseSlots))
	for _, s := range r.BaseSlots {
		base = append(base, domain.BaseSlot{Start: types.TimeString(s.Start), End: types.TimeString(s.End)})
	}

	return &seedAvailability.Request{
		EntityID:   path.EntityID,
		EntityKind: path.Kind,
		From:       from,
		To:         to,
		BaseSlots:  base,
		Weekdays:   weekdays,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *seedAvailability.Response) *SeedAvailabilityResponse {
	created := make([]CreatedRecordResponse, 0, len(resp.Created))
	for _, rec := range resp.Created {
		created = append(created, CreatedRecordResponse{ID: rec.ID, Date: types.FormatDate(rec.Day)})
	}
	return &SeedAvailabilityResponse{
		Created: created,
		Skipped: handlers.FormatDates(resp.Skipped),
	}
}
