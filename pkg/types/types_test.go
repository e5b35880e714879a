package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	valid := []string{"00:00", "09:30", "19:59", "23:59"}
	for _, v := range valid {
		assert.NoError(t, TimeString(v).Validate(), v)
	}

	invalid := []string{"", "9:30", "24:00", "12:60", "12-30", "1230", " 12:30", "12:30:00"}
	for _, v := range invalid {
		err := TimeString(v).Validate()
		assert.ErrorIs(t, err, ErrInvalidTimeFormat, v)
	}
}

func TestTimeString_Minutes(t *testing.T) {
	m, err := TimeString("09:45").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 585, m)

	m, err = TimeString("00:00").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	_, err = TimeString("25:00").Minutes()
	assert.Error(t, err)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("10:01").IsAfter("10:00"))
}

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange("09:00", "10:00"))
	assert.ErrorIs(t, ValidateRange("10:00", "10:00"), ErrInvalidTimeRange)
	assert.ErrorIs(t, ValidateRange("11:00", "10:00"), ErrInvalidTimeRange)
	assert.ErrorIs(t, ValidateRange("xx", "10:00"), ErrInvalidTimeFormat)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d int
		want       bool
	}{
		{"adjacent end equals start", 540, 600, 600, 660, false},
		{"adjacent start equals end", 600, 660, 540, 600, false},
		{"fully nested", 540, 720, 600, 660, true},
		{"nested other way", 600, 660, 540, 720, true},
		{"partial overlap left", 540, 630, 600, 660, true},
		{"partial overlap right", 600, 660, 540, 630, true},
		{"identical", 540, 600, 540, 600, true},
		{"disjoint", 540, 560, 600, 660, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b, tt.c, tt.d))
			assert.Equal(t, tt.a < tt.d && tt.b > tt.c, Overlaps(tt.a, tt.b, tt.c, tt.d))
		})
	}
}

func TestTruncateDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	in := time.Date(2024, 3, 4, 23, 15, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), TruncateDay(in))
}

func TestDaysInRange(t *testing.T) {
	from := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)

	days, err := DaysInRange(from, to)
	require.NoError(t, err)
	require.Len(t, days, 5)
	assert.Equal(t, "2024-02-29", FormatDate(days[2]))
	assert.Equal(t, "2024-03-02", FormatDate(days[4]))
	assert.Equal(t, 5, CountDays(from, to))

	_, err = DaysInRange(to, from)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = ParseDate("04.03.2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseWeekdays(t *testing.T) {
	days, err := ParseWeekdays([]string{"Friday", "monday", "MONDAY", " wednesday "})
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, days)
	assert.Equal(t, []string{"monday", "wednesday", "friday"}, WeekdayNames(days))

	_, err = ParseWeekdays([]string{"monday", "funday"})
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}
