package release_slot

import "errors"

var (
	// ErrEntityNotFound возвращается, когда сущность не найдена в каталоге
	ErrEntityNotFound = errors.New("release_slot: entity not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("release_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("release_slot: internal error")
)
