package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// BaseSlot слот шаблона: только границы, состояние при посеве всегда свободное
type BaseSlot struct {
	Start types.TimeString
	End   types.TimeString
}

// Template шаблон посева доступности для сущности
type Template struct {
	ID         int64
	EntityID   string
	EntityKind EntityKind
	BaseSlots  []BaseSlot
	Weekdays   []time.Weekday // пусто = каждый день
	WindowDays int            // 0 = окно из конфигурации сидера
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AppliesOn true, если шаблон действует в этот день недели
func (t *Template) AppliesOn(day time.Time) bool {
	if len(t.Weekdays) == 0 {
		return true
	}
	wd := day.Weekday()
	for _, w := range t.Weekdays {
		if w == wd {
			return true
		}
	}
	return false
}

// SeedSlots копия базовых слотов в свободном состоянии
func SeedSlots(base []BaseSlot) []Slot {
	out := make([]Slot, 0, len(base))
	for _, b := range base {
		out = append(out, NewFreeSlot(b.Start, b.End))
	}
	return out
}

// ValidateBaseSlots проверяет границы каждого слота.
// Пересечения между слотами допускаются.
func ValidateBaseSlots(base []BaseSlot) error {
	if len(base) == 0 {
		return ErrEmptyBaseSlots
	}
	if len(base) > MaxSlotsPerDay {
		return ErrTooManySlots
	}
	for _, b := range base {
		if err := types.ValidateRange(b.Start, b.End); err != nil {
			return err
		}
	}
	return nil
}
