package reserve_slot

import (
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.EntityID == "" || len(req.EntityID) > domain.MaxEntityIDLength {
		return fmt.Errorf("%w: entityID is required and must be at most %d characters", ErrInvalidInput, domain.MaxEntityIDLength)
	}

	if !req.EntityKind.IsValid() {
		return fmt.Errorf("%w: unknown entity kind %q", ErrInvalidInput, req.EntityKind)
	}

	if req.Day.IsZero() {
		return fmt.Errorf("%w: day is required", ErrInvalidInput)
	}

	if err := types.ValidateRange(req.Start, req.End); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.BookingRef == "" || len(req.BookingRef) > domain.MaxBookingRefLength {
		return fmt.Errorf("%w: bookingRef is required and must be at most %d characters", ErrInvalidInput, domain.MaxBookingRefLength)
	}

	return nil
}

// reservedBy слоты записи, занятые указанным бронированием
func reservedBy(record *domain.AvailabilityRecord, bookingRef string) []domain.Slot {
	out := make([]domain.Slot, 0, 1)
	for _, s := range record.Slots {
		if ptr.Value(s.BookingRef) == bookingRef {
			out = append(out, s)
		}
	}
	return out
}
