package seed_availability

import "errors"

var (
	// ErrEntityNotFound возвращается, когда сущность не найдена в каталоге
	ErrEntityNotFound = errors.New("seed_availability: entity not found")

	// ErrEntityInactive возвращается, когда сущность выведена из эксплуатации
	ErrEntityInactive = errors.New("seed_availability: entity is not active")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("seed_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("seed_availability: internal error")
)
