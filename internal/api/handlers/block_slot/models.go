package block_slot

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	blockSlot "github.com/m04kA/SMC-AvailabilityService/internal/usecase/block_slot"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// BlockSlotRequest HTTP request model (reason для unblock игнорируется)
type BlockSlotRequest struct {
	Start  string `json:"start" validate:"required,hhmm"`
	End    string `json:"end" validate:"required,hhmm"`
	Reason string `json:"reason,omitempty" validate:"max=255"`
}

// BlockSlotResponse HTTP response model
type BlockSlotResponse struct {
	Record *handlers.AvailabilityResponse `json:"record"`
	Slot   handlers.SlotResponse          `json:"slot"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BlockSlotRequest) ToUseCaseRequest(path handlers.EntityPath, day time.Time) *blockSlot.Request {
	return &blockSlot.Request{
		EntityID:   path.EntityID,
		EntityKind: path.Kind,
		Day:        day,
		Start:      types.TimeString(r.Start),
		End:        types.TimeString(r.End),
		Reason:     r.Reason,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *blockSlot.Response) *BlockSlotResponse {
	return &BlockSlotResponse{
		Record: handlers.FromDomainRecord(resp.Record),
		Slot:   handlers.FromDomainSlot(resp.Slot),
	}
}
