package reserve_slot

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на резервирование слота
type Request struct {
	EntityID   string            // ID сущности во внешнем каталоге
	EntityKind domain.EntityKind // Тип сущности
	Day        time.Time         // День (время отбрасывается)
	Start      types.TimeString  // Начало диапазона, "HH:MM"
	End        types.TimeString  // Конец диапазона, "HH:MM"
	BookingRef string            // ID бронирования во внешнем сервисе
}

// Response модель ответа с обновленной записью
type Response struct {
	Record   *domain.AvailabilityRecord // Запись после резервирования
	Reserved []domain.Slot              // Слоты, занятые этим бронированием
}
