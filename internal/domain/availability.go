package domain

import (
	"slices"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// EntityKind тип бронируемой сущности
type EntityKind string

const (
	KindOffice      EntityKind = "office"
	KindMeetingRoom EntityKind = "meeting_room"
	KindFlexDesk    EntityKind = "flex_desk"
)

// EntityKinds все допустимые типы сущностей
var EntityKinds = []EntityKind{KindOffice, KindMeetingRoom, KindFlexDesk}

// IsValid проверяет, что тип сущности известен
func (k EntityKind) IsValid() bool {
	return slices.Contains(EntityKinds, k)
}

// ParseEntityKind парсит тип сущности из строки
func ParseEntityKind(s string) (EntityKind, error) {
	k := EntityKind(s)
	if !k.IsValid() {
		return "", ErrInvalidEntityKind
	}
	return k, nil
}

// NaturalKey естественный ключ записи доступности: сущность + день
type NaturalKey struct {
	EntityID   string
	EntityKind EntityKind
	Day        time.Time
}

// NewNaturalKey создает ключ с днем, приведенным к полуночи UTC
func NewNaturalKey(entityID string, kind EntityKind, day time.Time) NaturalKey {
	return NaturalKey{EntityID: entityID, EntityKind: kind, Day: types.TruncateDay(day)}
}

// Validate проверяет ключ
func (k NaturalKey) Validate() error {
	if k.EntityID == "" {
		return ErrEmptyEntityID
	}
	if !k.EntityKind.IsValid() {
		return ErrInvalidEntityKind
	}
	if k.Day.IsZero() {
		return ErrInvalidDay
	}
	return nil
}

// AvailabilityRecord слоты одной сущности на один календарный день
type AvailabilityRecord struct {
	ID         string
	EntityID   string
	EntityKind EntityKind
	Day        time.Time // полночь UTC
	Slots      []Slot    // порядок вставки, не отсортированы
	Version    int64     // растет на каждой записи, используется для CAS
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Key возвращает естественный ключ записи
func (r *AvailabilityRecord) Key() NaturalKey {
	return NaturalKey{EntityID: r.EntityID, EntityKind: r.EntityKind, Day: r.Day}
}

// HasBookings true, если хотя бы один слот привязан к бронированию
func (r *AvailabilityRecord) HasBookings() bool {
	for _, s := range r.Slots {
		if s.IsReserved() {
			return true
		}
	}
	return false
}

// FindSlot возвращает слот с точным совпадением границ
func (r *AvailabilityRecord) FindSlot(start, end types.TimeString) (Slot, bool) {
	idx := FindExact(r.Slots, start, end)
	if idx < 0 {
		return Slot{}, false
	}
	return r.Slots[idx], true
}

// Clone глубокая копия записи
func (r *AvailabilityRecord) Clone() *AvailabilityRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Slots = CloneSlots(r.Slots)
	return &c
}

// AvailabilityFilter фильтр списка записей доступности
type AvailabilityFilter struct {
	EntityID   string     // Обязательный параметр
	EntityKind EntityKind // Обязательный параметр
	From       *time.Time // Начало периода включительно (опционально)
	To         *time.Time // Конец периода включительно (опционально)
	Offset     int
	Limit      int
}
