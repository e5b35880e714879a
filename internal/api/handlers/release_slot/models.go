package release_slot

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	releaseSlot "github.com/m04kA/SMC-AvailabilityService/internal/usecase/release_slot"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// ReleaseSlotRequest HTTP request model
type ReleaseSlotRequest struct {
	Start string `json:"start" validate:"required,hhmm"`
	End   string `json:"end" validate:"required,hhmm"`
}

// ReleaseSlotResponse HTTP response model
type ReleaseSlotResponse struct {
	Record *handlers.AvailabilityResponse `json:"record"`
	Slot   handlers.SlotResponse          `json:"slot"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReleaseSlotRequest) ToUseCaseRequest(path handlers.EntityPath, day time.Time) *releaseSlot.Request {
	return &releaseSlot.Request{
		EntityID:   path.EntityID,
		EntityKind: path.Kind,
		Day:        day,
		Start:      types.TimeString(r.Start),
		End:        types.TimeString(r.End),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *releaseSlot.Response) *ReleaseSlotResponse {
	return &ReleaseSlotResponse{
		Record: handlers.FromDomainRecord(resp.Record),
		Slot:   handlers.FromDomainSlot(resp.Slot),
	}
}
