package txmanager

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrBeginTx возвращается, если не удалось открыть транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается, если не удалось зафиксировать транзакцию
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrRetriesExhausted возвращается, когда транзакция так и не прошла из-за конфликтов сериализации
	ErrRetriesExhausted = errors.New("txmanager: serialization retries exhausted")
)

// IsSerializationFailure проверяет, что ошибка PostgreSQL означает конфликт сериализации или deadlock
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// 40001 serialization_failure, 40P01 deadlock_detected
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}
