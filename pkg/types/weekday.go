package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrInvalidWeekday неизвестное название дня недели
var ErrInvalidWeekday = errors.New("invalid weekday")

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday переводит название дня (monday..sunday, регистр не важен) в time.Weekday
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
	}
	return wd, nil
}

// WeekdayName название дня в нижнем регистре
func WeekdayName(wd time.Weekday) string {
	return strings.ToLower(wd.String())
}

// ParseWeekdays парсит список названий в множество без повторов, отсортированное от воскресенья
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]struct{}, len(names))
	out := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		wd, err := ParseWeekday(n)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[wd]; ok {
			continue
		}
		seen[wd] = struct{}{}
		out = append(out, wd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// WeekdayNames названия дней в том же порядке
func WeekdayNames(days []time.Weekday) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, WeekdayName(d))
	}
	return out
}
