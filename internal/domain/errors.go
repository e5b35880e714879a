package domain

import "errors"

var (
	// ErrInvalidEntityKind тип сущности не из office | meeting_room | flex_desk
	ErrInvalidEntityKind = errors.New("domain: invalid entity kind")

	// ErrEmptyEntityID пустой идентификатор сущности
	ErrEmptyEntityID = errors.New("domain: empty entity id")

	// ErrInvalidDay не задан день
	ErrInvalidDay = errors.New("domain: invalid day")

	// ErrEmptyBaseSlots у шаблона нет слотов
	ErrEmptyBaseSlots = errors.New("domain: base slots are empty")

	// ErrTooManySlots слишком много слотов на день
	ErrTooManySlots = errors.New("domain: too many slots per day")
)
