package availability

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Guard предусловие мутации. Проверяется на заблокированной (FOR UPDATE) записи внутри транзакции,
// поэтому между проверкой и записью состояние не может измениться.
// record == nil, если записи за этот день еще нет.
type Guard func(day domain.NaturalKey, record *domain.AvailabilityRecord) error

// RequireRecord запись за день должна существовать
func RequireRecord() Guard {
	return func(_ domain.NaturalKey, record *domain.AvailabilityRecord) error {
		if record == nil {
			return ErrRecordNotFound
		}
		return nil
	}
}

// RequireSlot слот с точными границами должен существовать
func RequireSlot(start, end types.TimeString) Guard {
	return func(key domain.NaturalKey, record *domain.AvailabilityRecord) error {
		if record == nil {
			return ErrRecordNotFound
		}
		if _, ok := record.FindSlot(start, end); !ok {
			return newSlotError(key.Day, start, end, ErrSlotNotFound)
		}
		return nil
	}
}

// RequireRangeAvailable каждый слот, пересекающийся с [start, end), свободен и не заблокирован,
// и хотя бы один такой слот есть
func RequireRangeAvailable(start, end types.TimeString) Guard {
	return func(key domain.NaturalKey, record *domain.AvailabilityRecord) error {
		if record == nil {
			return ErrRecordNotFound
		}
		found := false
		for _, s := range record.Slots {
			if !s.Overlaps(start, end) {
				continue
			}
			found = true
			if s.Blocked {
				return newSlotError(key.Day, s.Start, s.End, ErrSlotBlocked)
			}
			if s.IsReserved() || !s.Free {
				return newSlotError(key.Day, s.Start, s.End, ErrSlotAlreadyReserved)
			}
		}
		if !found {
			return newSlotError(key.Day, start, end, ErrSlotNotFound)
		}
		return nil
	}
}

// RequireSlotNotBlocked слот с точными границами существует и не заблокирован
func RequireSlotNotBlocked(start, end types.TimeString) Guard {
	return func(key domain.NaturalKey, record *domain.AvailabilityRecord) error {
		if record == nil {
			return ErrRecordNotFound
		}
		slot, ok := record.FindSlot(start, end)
		if !ok {
			return newSlotError(key.Day, start, end, ErrSlotNotFound)
		}
		if slot.Blocked {
			return newSlotError(key.Day, start, end, ErrSlotBlocked)
		}
		return nil
	}
}

// RequireBlockable если слот с точными границами уже есть, у него нет бронирования и он не заблокирован.
// Отсутствие записи или слота допустимо: блокировка добавит слот.
func RequireBlockable(start, end types.TimeString) Guard {
	return func(key domain.NaturalKey, record *domain.AvailabilityRecord) error {
		if record == nil {
			return nil
		}
		slot, ok := record.FindSlot(start, end)
		if !ok {
			return nil
		}
		if slot.IsReserved() {
			return newSlotError(key.Day, start, end, ErrSlotHasActiveBooking)
		}
		if slot.Blocked {
			return newSlotError(key.Day, start, end, ErrSlotAlreadyBlocked)
		}
		return nil
	}
}

// RequireSlotBlocked слот с точными границами существует и заблокирован
func RequireSlotBlocked(start, end types.TimeString) Guard {
	return func(key domain.NaturalKey, record *domain.AvailabilityRecord) error {
		if record == nil {
			return ErrRecordNotFound
		}
		slot, ok := record.FindSlot(start, end)
		if !ok {
			return newSlotError(key.Day, start, end, ErrSlotNotFound)
		}
		if !slot.Blocked {
			return newSlotError(key.Day, start, end, ErrSlotNotBlocked)
		}
		return nil
	}
}
