package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const (
	msgRecordNotFound          = "на этот день нет записи доступности"
	msgRecordHasBookings       = "в записи есть активные бронирования"
	msgConcurrentModification  = "запись изменяется другим запросом, повторите попытку"
	codeConcurrentModification = "concurrent_modification"
)

var slotConflictMessages = map[string]string{
	"slot_not_found":     "слот не найден",
	"already_reserved":   "слот уже зарезервирован",
	"blocked":            "слот заблокирован",
	"has_active_booking": "на слоте есть активное бронирование",
	"already_blocked":    "слот уже заблокирован",
	"not_blocked":        "слот не заблокирован",
	"slot_limit_reached": "достигнут лимит слотов на день",
}

// SlotConflictDetails детали конфликта состояния слота
type SlotConflictDetails struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// RespondEngineError отвечает на ошибки состояния движка слотов.
// Возвращает false, если ошибка к ним не относится.
func RespondEngineError(w http.ResponseWriter, err error) bool {
	var slotErr *availability.SlotError
	switch {
	case errors.As(err, &slotErr):
		code := slotErr.Code()
		msg, ok := slotConflictMessages[code]
		if !ok {
			msg = slotErr.Error()
		}
		status := http.StatusConflict
		if code == "slot_not_found" {
			status = http.StatusNotFound
		}
		RespondErrorWithDetails(w, status, msg, code, SlotConflictDetails{
			Day:   types.FormatDate(slotErr.Day),
			Start: slotErr.Start.String(),
			End:   slotErr.End.String(),
		})

	case errors.Is(err, availability.ErrRecordNotFound):
		RespondErrorWithDetails(w, http.StatusNotFound, msgRecordNotFound, availability.ReasonCode(err), nil)

	case errors.Is(err, availability.ErrRecordHasBookings):
		RespondErrorWithDetails(w, http.StatusConflict, msgRecordHasBookings, "has_bookings", nil)

	case errors.Is(err, availability.ErrConcurrentModification):
		RespondErrorWithDetails(w, http.StatusConflict, msgConcurrentModification, codeConcurrentModification, nil)

	default:
		return false
	}
	return true
}
