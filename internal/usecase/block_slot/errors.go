package block_slot

import "errors"

var (
	// ErrEntityNotFound возвращается, когда сущность не найдена в каталоге
	ErrEntityNotFound = errors.New("block_slot: entity not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("block_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("block_slot: internal error")
)
