package reserve_slot

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	reserveSlot "github.com/m04kA/SMC-AvailabilityService/internal/usecase/reserve_slot"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// ReserveSlotRequest HTTP request model
type ReserveSlotRequest struct {
	Start      string `json:"start" validate:"required,hhmm"`         // "10:00"
	End        string `json:"end" validate:"required,hhmm"`           // "11:00"
	BookingRef string `json:"bookingRef" validate:"required,max=128"` // ID бронирования
}

// ReserveSlotResponse HTTP response model
type ReserveSlotResponse struct {
	Record   *handlers.AvailabilityResponse `json:"record"`
	Reserved []handlers.SlotResponse        `json:"reserved"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveSlotRequest) ToUseCaseRequest(path handlers.EntityPath, day time.Time) *reserveSlot.Request {
	return &reserveSlot.Request{
		EntityID:   path.EntityID,
		EntityKind: path.Kind,
		Day:        day,
		Start:      types.TimeString(r.Start),
		End:        types.TimeString(r.End),
		BookingRef: r.BookingRef,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSlot.Response) *ReserveSlotResponse {
	return &ReserveSlotResponse{
		Record:   handlers.FromDomainRecord(resp.Record),
		Reserved: handlers.FromDomainSlots(resp.Reserved),
	}
}
