package recurring_block

import (
	"errors"
	"fmt"
)

var (
	// ErrEntityNotFound возвращается, когда сущность не найдена в каталоге
	ErrEntityNotFound = errors.New("recurring_block: entity not found")

	// ErrNothingBlocked возвращается, когда ни один день диапазона не удалось заблокировать
	ErrNothingBlocked = errors.New("recurring_block: no day was blocked")

	// ErrInterrupted обход дней прерван отменой контекста; уже заблокированные дни остаются
	ErrInterrupted = errors.New("recurring_block: interrupted")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("recurring_block: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("recurring_block: internal error")
)

// BatchError ни один день не заблокирован; содержит причины по каждому дню
type BatchError struct {
	MatchingDays int
	Failures     []DayFailure
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%v: %d of %d matching days failed", ErrNothingBlocked, len(e.Failures), e.MatchingDays)
}

func (e *BatchError) Unwrap() error {
	return ErrNothingBlocked
}
