package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

var (
	// ErrRecordNotFound возвращается, когда записи доступности нет
	ErrRecordNotFound = errors.New("availability record not found")

	// ErrRecordHasBookings возвращается при удалении записи, в которой есть забронированные слоты
	ErrRecordHasBookings = errors.New("availability record has active bookings")

	// ErrConcurrentModification возвращается, когда запись так и не удалось обновить из-за конкурентных записей
	ErrConcurrentModification = errors.New("availability record modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// Конфликты состояния слота
var (
	ErrSlotNotFound         = errors.New("slot not found")
	ErrSlotAlreadyReserved  = errors.New("slot already reserved")
	ErrSlotBlocked          = errors.New("slot is blocked")
	ErrSlotHasActiveBooking = errors.New("slot has active booking")
	ErrSlotAlreadyBlocked   = errors.New("slot already blocked")
	ErrSlotNotBlocked       = errors.New("slot is not blocked")
	ErrSlotLimitReached     = errors.New("daily slot limit reached")
)

var reasonCodes = map[error]string{
	ErrSlotNotFound:         "slot_not_found",
	ErrSlotAlreadyReserved:  "already_reserved",
	ErrSlotBlocked:          "blocked",
	ErrSlotHasActiveBooking: "has_active_booking",
	ErrSlotAlreadyBlocked:   "already_blocked",
	ErrSlotNotBlocked:       "not_blocked",
	ErrSlotLimitReached:     "slot_limit_reached",
	ErrRecordNotFound:       "record_not_found",
}

// SlotError конфликт состояния конкретного слота в конкретный день
type SlotError struct {
	Day    time.Time
	Start  types.TimeString
	End    types.TimeString
	Reason error
}

func newSlotError(day time.Time, start, end types.TimeString, reason error) *SlotError {
	return &SlotError{Day: day, Start: start, End: end, Reason: reason}
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %s-%s on %s: %v", e.Start, e.End, types.FormatDate(e.Day), e.Reason)
}

func (e *SlotError) Unwrap() error {
	return e.Reason
}

// Code машиночитаемый код причины (has_active_booking, already_blocked, ...)
func (e *SlotError) Code() string {
	return ReasonCode(e.Reason)
}

// ReasonCode код причины для ошибки конфликта; "conflict" для неизвестных
func ReasonCode(err error) string {
	for sentinel, code := range reasonCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return "conflict"
}

// IsConflict true для ошибок состояния (слот/запись), которые вызывающий код может обработать
func IsConflict(err error) bool {
	var slotErr *SlotError
	return errors.As(err, &slotErr) || errors.Is(err, ErrRecordNotFound) || errors.Is(err, ErrRecordHasBookings)
}
