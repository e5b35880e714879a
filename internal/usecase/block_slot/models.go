package block_slot

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на блокировку или разблокировку слота
type Request struct {
	EntityID   string
	EntityKind domain.EntityKind
	Day        time.Time
	Start      types.TimeString // Границы слота должны совпадать точно
	End        types.TimeString
	Reason     string // Причина блокировки (для Unblock не используется)
}

// Response модель ответа с обновленной записью
type Response struct {
	Record *domain.AvailabilityRecord
	Slot   domain.Slot // Слот после операции
}
