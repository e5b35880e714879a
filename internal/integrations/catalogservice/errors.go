package catalogservice

import "errors"

var (
	// ErrEntityNotFound возвращается, когда сущность не найдена в каталоге
	ErrEntityNotFound = errors.New("catalogservice client: entity not found")

	// ErrInvalidEntityID возвращается, когда каталог отклонил идентификатор как некорректный
	ErrInvalidEntityID = errors.New("catalogservice client: malformed entity id")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)
