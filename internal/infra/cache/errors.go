package cache

import "errors"

var (
	// ErrGet возвращается при ошибке чтения из Redis
	ErrGet = errors.New("cache: failed to get")

	// ErrSet возвращается при ошибке записи в Redis
	ErrSet = errors.New("cache: failed to set")

	// ErrDelete возвращается при ошибке удаления ключей
	ErrDelete = errors.New("cache: failed to delete")

	// ErrIndex возвращается при ошибке работы с индексом ключей
	ErrIndex = errors.New("cache: failed to update key index")

	// ErrMarshal возвращается, если значение не удалось сериализовать
	ErrMarshal = errors.New("cache: failed to marshal value")
)
