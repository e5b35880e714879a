package seed_availability

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Request модель запроса на посев доступности
type Request struct {
	EntityID   string
	EntityKind domain.EntityKind
	From       time.Time         // Первый день включительно
	To         time.Time         // Последний день включительно
	BaseSlots  []domain.BaseSlot // Слоты каждого дня, все свободные
	Weekdays   []time.Weekday    // Пусто = каждый день диапазона
}

// Response итог посева
type Response struct {
	Created []*domain.AvailabilityRecord // Созданные записи в порядке дней
	Skipped []time.Time                  // Дни, для которых запись уже была
}
