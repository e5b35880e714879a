package templates

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда у сущности нет шаблона
	ErrTemplateNotFound = errors.New("template not found")

	// ErrEntityNotFound возвращается, когда сущность не найдена в каталоге
	ErrEntityNotFound = errors.New("entity not found")

	// ErrEntityInactive возвращается, когда сущность выведена из эксплуатации
	ErrEntityInactive = errors.New("entity is not active")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
