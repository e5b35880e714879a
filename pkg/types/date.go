package types

import (
	"errors"
	"fmt"
	"time"
)

// DateFormat формат календарной даты
const DateFormat = "2006-01-02"

var (
	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidDateRange возвращается, когда конец диапазона раньше начала
	ErrInvalidDateRange = errors.New("invalid date range")
)

// TruncateDay приводит дату к началу суток (полночь UTC) по календарным полям исходной даты
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate парсит дату YYYY-MM-DD в полночь UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return TruncateDay(t), nil
}

// FormatDate форматирует дату в YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// DaysInRange возвращает все дни включительного диапазона [from, to], начиная с from
func DaysInRange(from, to time.Time) ([]time.Time, error) {
	start := TruncateDay(from)
	end := TruncateDay(to)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidDateRange, FormatDate(end), FormatDate(start))
	}

	days := make([]time.Time, 0, CountDays(start, end))
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days, nil
}

// CountDays возвращает количество дней во включительном диапазоне (0, если to раньше from)
func CountDays(from, to time.Time) int {
	start := TruncateDay(from)
	end := TruncateDay(to)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
