package availability

import "errors"

var (
	// ErrRecordNotFound возвращается, когда запись доступности не найдена
	ErrRecordNotFound = errors.New("availability.repository: record not found")

	// ErrAlreadyExists возвращается при нарушении уникальности (entity_id, entity_kind, day)
	ErrAlreadyExists = errors.New("availability.repository: record already exists")

	// ErrVersionConflict возвращается, когда запись изменена конкурентно (версия не совпала)
	ErrVersionConflict = errors.New("availability.repository: version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")

	// ErrEncodeSlots возвращается, если слоты не удалось сериализовать в JSONB
	ErrEncodeSlots = errors.New("availability.repository: failed to encode slots")
)
