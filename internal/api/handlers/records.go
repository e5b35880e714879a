package handlers

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// SlotResponse слот в ответе API
type SlotResponse struct {
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Free       bool    `json:"free"`
	BookingRef *string `json:"bookingRef,omitempty"`
	Blocked    bool    `json:"blocked"`
	Reason     *string `json:"reason,omitempty"`
}

// AvailabilityResponse запись доступности в ответе API
type AvailabilityResponse struct {
	ID         string         `json:"id"`
	EntityID   string         `json:"entityId"`
	EntityKind string         `json:"entityKind"`
	Date       string         `json:"date"`
	Slots      []SlotResponse `json:"slots"`
	Version    int64          `json:"version"`
	CreatedAt  string         `json:"createdAt"`
	UpdatedAt  string         `json:"updatedAt"`
}

// FromDomainSlot конвертирует слот в DTO
func FromDomainSlot(s domain.Slot) SlotResponse {
	return SlotResponse{
		Start:      s.Start.String(),
		End:        s.End.String(),
		Free:       s.Free,
		BookingRef: s.BookingRef,
		Blocked:    s.Blocked,
		Reason:     s.Reason,
	}
}

// FromDomainSlots конвертирует список слотов; nil превращается в пустой список
func FromDomainSlots(slots []domain.Slot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, FromDomainSlot(s))
	}
	return out
}

// FromDomainRecord конвертирует запись доступности в DTO
func FromDomainRecord(r *domain.AvailabilityRecord) *AvailabilityResponse {
	if r == nil {
		return nil
	}
	return &AvailabilityResponse{
		ID:         r.ID,
		EntityID:   r.EntityID,
		EntityKind: string(r.EntityKind),
		Date:       types.FormatDate(r.Day),
		Slots:      FromDomainSlots(r.Slots),
		Version:    r.Version,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  r.UpdatedAt.Format(time.RFC3339),
	}
}

// FormatDates форматирует список дней в YYYY-MM-DD
func FormatDates(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, types.FormatDate(d))
	}
	return out
}
