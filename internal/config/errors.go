package config

import "errors"

// MaxSeederWindowDays верхняя граница окна сидера
const MaxSeederWindowDays = 366

var (
	// ErrLoadConfig возвращается, если конфиг не удалось прочитать
	ErrLoadConfig = errors.New("config: failed to load")

	// ErrInvalidConfig возвращается при невалидных значениях
	ErrInvalidConfig = errors.New("config: invalid value")
)
