package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// ErrInvalidTimeFormat возвращается, когда строка не соответствует формату HH:MM
	ErrInvalidTimeFormat = errors.New("invalid time string format")

	timeStringPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// TimeString время суток в формате HH:MM (24 часа, с ведущими нулями)
type TimeString string

// Validate проверяет формат HH:MM
func (t TimeString) Validate() error {
	if !timeStringPattern.MatchString(string(t)) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}
	return nil
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// Minutes возвращает количество минут от полуночи
// Для невалидного значения возвращает ошибку
func (t TimeString) Minutes() (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	s := string(t)
	hours, _ := strconv.Atoi(s[0:2])
	minutes, _ := strconv.Atoi(s[3:5])
	return hours*60 + minutes, nil
}

// MustMinutes то же, что Minutes, но для невалидного значения возвращает -1
func (t TimeString) MustMinutes() int {
	m, err := t.Minutes()
	if err != nil {
		return -1
	}
	return m
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.MustMinutes() < other.MustMinutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.MustMinutes() > other.MustMinutes()
}

// ValidateRange проверяет, что оба значения валидны и start строго раньше end
func ValidateRange(start, end TimeString) error {
	startMin, err := start.Minutes()
	if err != nil {
		return err
	}
	endMin, err := end.Minutes()
	if err != nil {
		return err
	}
	if startMin >= endMin {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidTimeRange, start, end)
	}
	return nil
}

// ErrInvalidTimeRange возвращается, когда начало интервала не раньше конца
var ErrInvalidTimeRange = errors.New("invalid time range")

// Overlaps проверяет пересечение полуоткрытых интервалов [a,b) и [c,d) в минутах
// Граничащие интервалы (b == c) не пересекаются
func Overlaps(a, b, c, d int) bool {
	return a < d && b > c
}
