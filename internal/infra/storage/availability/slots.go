package availability

import (
	"github.com/goccy/go-json"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// slotRow представление слота в колонке slots (JSONB)
type slotRow struct {
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Free       bool    `json:"free"`
	BookingRef *string `json:"bookingRef,omitempty"`
	Blocked    bool    `json:"blocked"`
	Reason     *string `json:"reason,omitempty"`
}

func encodeSlots(slots []domain.Slot) ([]byte, error) {
	rows := make([]slotRow, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, slotRow{
			Start:      s.Start.String(),
			End:        s.End.String(),
			Free:       s.Free,
			BookingRef: s.BookingRef,
			Blocked:    s.Blocked,
			Reason:     s.Reason,
		})
	}
	return json.Marshal(rows)
}

func decodeSlots(data []byte) ([]domain.Slot, error) {
	if len(data) == 0 {
		return []domain.Slot{}, nil
	}

	var rows []slotRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}

	slots := make([]domain.Slot, 0, len(rows))
	for _, r := range rows {
		slots = append(slots, domain.Slot{
			Start:      types.TimeString(r.Start),
			End:        types.TimeString(r.End),
			Free:       r.Free,
			BookingRef: r.BookingRef,
			Blocked:    r.Blocked,
			Reason:     r.Reason,
		})
	}
	return slots, nil
}
