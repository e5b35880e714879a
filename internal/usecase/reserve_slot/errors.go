package reserve_slot

import "errors"

var (
	// ErrEntityNotFound возвращается, когда сущность не найдена в каталоге
	ErrEntityNotFound = errors.New("reserve_slot: entity not found")

	// ErrEntityInactive возвращается, когда сущность выведена из эксплуатации
	ErrEntityInactive = errors.New("reserve_slot: entity is not active")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reserve_slot: booking not found")

	// ErrBookingInactive возвращается, когда бронирование отменено или завершено
	ErrBookingInactive = errors.New("reserve_slot: booking is not active")

	// ErrBookingMismatch возвращается, когда бронирование оформлено на другую сущность
	ErrBookingMismatch = errors.New("reserve_slot: booking belongs to another entity")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_slot: internal error")
)
