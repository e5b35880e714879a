package recurring_block

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на повторяющуюся блокировку
type Request struct {
	EntityID   string
	EntityKind domain.EntityKind
	From       time.Time        // Первый день диапазона включительно
	To         time.Time        // Последний день диапазона включительно
	Start      types.TimeString // Границы блокируемого слота
	End        types.TimeString
	Reason     string
	Weekdays   []string // monday..sunday
}

// DayFailure причина, по которой день не заблокирован
type DayFailure struct {
	Day    time.Time
	Reason string // has_active_booking, already_blocked, internal, ...
}

// Response итог пакетной блокировки
type Response struct {
	Blocked      []time.Time  // Заблокированные дни
	Failures     []DayFailure // Пропущенные дни
	DaysInRange  int          // Всего дней в диапазоне
	MatchingDays int          // Дней с подходящим днем недели
}

// Partial true, если часть подходящих дней не заблокирована
func (r *Response) Partial() bool {
	return len(r.Failures) > 0
}
