package domain

import (
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Slot временной интервал внутри дня
type Slot struct {
	Start      types.TimeString
	End        types.TimeString
	Free       bool
	BookingRef *string // только у зарезервированного слота
	Blocked    bool
	Reason     *string // только у заблокированного слота
}

// NewFreeSlot создает свободный слот
func NewFreeSlot(start, end types.TimeString) Slot {
	return Slot{Start: start, End: end, Free: true}
}

// NewReservedSlot создает слот, занятый бронированием
func NewReservedSlot(start, end types.TimeString, bookingRef string) Slot {
	return Slot{Start: start, End: end, BookingRef: ptr.Ptr(bookingRef)}
}

// NewBlockedSlot создает заблокированный слот
func NewBlockedSlot(start, end types.TimeString, reason string) Slot {
	s := Slot{Start: start, End: end, Blocked: true}
	if reason != "" {
		s.Reason = ptr.Ptr(reason)
	}
	return s
}

// IsReserved слот привязан к бронированию
func (s Slot) IsReserved() bool {
	return s.BookingRef != nil
}

// IsAvailable слот можно забронировать
func (s Slot) IsAvailable() bool {
	return s.Free && !s.Blocked
}

// Matches точное совпадение границ
func (s Slot) Matches(start, end types.TimeString) bool {
	return s.Start == start && s.End == end
}

// Range границы слота в минутах от полуночи
func (s Slot) Range() (int, int) {
	return s.Start.MustMinutes(), s.End.MustMinutes()
}

// Validate проверяет формат границ и start < end
func (s Slot) Validate() error {
	return types.ValidateRange(s.Start, s.End)
}

// Overlaps пересекаются ли полуинтервалы [start, end) двух слотов
func (s Slot) Overlaps(start, end types.TimeString) bool {
	a, b := s.Range()
	return types.Overlaps(a, b, start.MustMinutes(), end.MustMinutes())
}

func (s Slot) clone() Slot {
	c := s
	if s.BookingRef != nil {
		c.BookingRef = ptr.Ptr(*s.BookingRef)
	}
	if s.Reason != nil {
		c.Reason = ptr.Ptr(*s.Reason)
	}
	return c
}

// CloneSlots глубокая копия списка слотов
func CloneSlots(slots []Slot) []Slot {
	if slots == nil {
		return nil
	}
	out := make([]Slot, len(slots))
	for i, s := range slots {
		out[i] = s.clone()
	}
	return out
}

// FindExact индекс слота с точным совпадением границ или -1
func FindExact(slots []Slot, start, end types.TimeString) int {
	for i, s := range slots {
		if s.Matches(start, end) {
			return i
		}
	}
	return -1
}

// FreeSlots слоты, доступные для бронирования (free и не заблокированы)
func FreeSlots(slots []Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.IsAvailable() {
			out = append(out, s.clone())
		}
	}
	return out
}

// ReserveRange помечает занятыми все слоты, пересекающиеся с [start, end).
// Предыдущие bookingRef и блокировка затираются. Возвращает новый список и число затронутых слотов.
func ReserveRange(slots []Slot, start, end types.TimeString, bookingRef string) ([]Slot, int) {
	out := CloneSlots(slots)
	touched := 0
	for i := range out {
		if !out[i].Overlaps(start, end) {
			continue
		}
		out[i].Free = false
		out[i].BookingRef = ptr.Ptr(bookingRef)
		out[i].Blocked = false
		out[i].Reason = nil
		touched++
	}
	return out, touched
}

// ReleaseExact освобождает слот с точным совпадением, если он не заблокирован.
// Уже свободный слот не меняется.
func ReleaseExact(slots []Slot, start, end types.TimeString) ([]Slot, bool) {
	out := CloneSlots(slots)
	idx := FindExact(out, start, end)
	if idx < 0 || out[idx].Blocked {
		return out, false
	}
	if out[idx].Free && out[idx].BookingRef == nil {
		return out, false
	}
	out[idx].Free = true
	out[idx].BookingRef = nil
	return out, true
}

// BlockExact блокирует слот с точным совпадением, при отсутствии добавляет новый заблокированный слот.
// Добавление сверх MaxSlotsPerDay возвращает ErrTooManySlots.
func BlockExact(slots []Slot, start, end types.TimeString, reason string) ([]Slot, error) {
	out := CloneSlots(slots)
	idx := FindExact(out, start, end)
	if idx < 0 {
		if len(out) >= MaxSlotsPerDay {
			return nil, ErrTooManySlots
		}
		return append(out, NewBlockedSlot(start, end, reason)), nil
	}
	out[idx].Free = false
	out[idx].Blocked = true
	out[idx].Reason = nil
	if reason != "" {
		out[idx].Reason = ptr.Ptr(reason)
	}
	return out, nil
}

// UnblockExact снимает блокировку со слота с точным совпадением; незаблокированный слот не меняется.
// Разблокированный слот свободен и не привязан к бронированию.
func UnblockExact(slots []Slot, start, end types.TimeString) ([]Slot, bool) {
	out := CloneSlots(slots)
	idx := FindExact(out, start, end)
	if idx < 0 || !out[idx].Blocked {
		return out, false
	}
	out[idx].Free = true
	out[idx].BookingRef = nil
	out[idx].Blocked = false
	out[idx].Reason = nil
	return out, true
}
