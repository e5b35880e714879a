package get_free_slots

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// FreeSlotResponse свободный слот
type FreeSlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FreeSlotsResponse HTTP response model
type FreeSlotsResponse struct {
	EntityID   string             `json:"entityId"`
	EntityKind string             `json:"entityKind"`
	Date       string             `json:"date"`
	Slots      []FreeSlotResponse `json:"slots"`
}

// FromDomainSlots конвертирует свободные слоты дня в HTTP response
func FromDomainSlots(path handlers.EntityPath, day time.Time, slots []domain.Slot) *FreeSlotsResponse {
	out := make([]FreeSlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, FreeSlotResponse{Start: s.Start.String(), End: s.End.String()})
	}
	return &FreeSlotsResponse{
		EntityID:   path.EntityID,
		EntityKind: string(path.Kind),
		Date:       types.FormatDate(day),
		Slots:      out,
	}
}
