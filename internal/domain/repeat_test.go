package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// January 2024: the 1st is a Monday, the 7th a Sunday.
func day(d int) time.Time {
	return time.Date(2024, time.January, d, 12, 0, 0, 0, time.UTC)
}

func TestDueOn(t *testing.T) {
	tests := []struct {
		name string
		rule RepeatRule
		at   time.Time
		want bool
	}{
		{"everyday monday", RepeatRule{Kind: RepeatEveryday}, day(1), true},
		{"everyday sunday", RepeatRule{Kind: RepeatEveryday}, day(7), true},
		{"weekdays friday", RepeatRule{Kind: RepeatWeekdays}, day(5), true},
		{"weekdays saturday", RepeatRule{Kind: RepeatWeekdays}, day(6), false},
		{"weekends saturday", RepeatRule{Kind: RepeatWeekends}, day(6), true},
		{"weekends sunday", RepeatRule{Kind: RepeatWeekends}, day(7), true},
		{"weekends tuesday", RepeatRule{Kind: RepeatWeekends}, day(2), false},
		{"daysOfWeek hit", RepeatRule{Kind: RepeatDaysOfWeek, Days: []int{1, 3}}, day(1), true},
		{"daysOfWeek miss on sunday", RepeatRule{Kind: RepeatDaysOfWeek, Days: []int{1, 3}}, day(7), false},
		{"daysOfWeek empty", RepeatRule{Kind: RepeatDaysOfWeek}, day(1), false},
		{"custom jan 1 always due", RepeatRule{Kind: RepeatCustom, Interval: 2, Unit: UnitDay}, day(1), true},
		{"custom jan 2 off-cadence", RepeatRule{Kind: RepeatCustom, Interval: 2, Unit: UnitDay}, day(2), false},
		{"custom jan 3 on-cadence", RepeatRule{Kind: RepeatCustom, Interval: 2, Unit: UnitDay}, day(3), true},
		// The unit never changes the modulus; cadence is day-based.
		{"custom week unit still daily cadence", RepeatRule{Kind: RepeatCustom, Interval: 2, Unit: UnitWeek}, day(3), true},
		{"none is never rule-due", RepeatRule{Kind: RepeatNone}, day(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.DueOn(tt.at))
		})
	}
}

func TestNormalize(t *testing.T) {
	r := RepeatRule{Kind: RepeatDaysOfWeek, Days: []int{3, 1, 3, 9, -1, 1}}
	r.Normalize()
	assert.Equal(t, []int{1, 3}, r.Days)

	r = RepeatRule{Kind: RepeatEveryday, Days: []int{1}, Interval: 5, Unit: UnitWeek}
	r.Normalize()
	assert.Nil(t, r.Days)
	assert.Zero(t, r.Interval)
	assert.Empty(t, r.Unit)
}

func TestValidate(t *testing.T) {
	require.NoError(t, RepeatRule{Kind: RepeatNone}.Validate())
	require.NoError(t, RepeatRule{Kind: RepeatCustom, Interval: 1, Unit: UnitMonth}.Validate())

	assert.Error(t, RepeatRule{Kind: RepeatCustom, Interval: 0, Unit: UnitDay}.Validate())
	assert.Error(t, RepeatRule{Kind: RepeatCustom, Interval: 2, Unit: "fortnight"}.Validate())
	assert.Error(t, RepeatRule{Kind: RepeatDaysOfWeek, Days: []int{7}}.Validate())
	assert.Error(t, RepeatRule{Kind: "sometimes"}.Validate())
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Does not repeat", RepeatRule{Kind: RepeatNone}.Summary())
	assert.Equal(t, "Repeats every day", RepeatRule{Kind: RepeatEveryday}.Summary())
	assert.Equal(t, "Repeats on weekdays", RepeatRule{Kind: RepeatWeekdays}.Summary())
	assert.Equal(t, "Repeats on weekends", RepeatRule{Kind: RepeatWeekends}.Summary())
	assert.Equal(t, "Repeats on Mon, Wed", RepeatRule{Kind: RepeatDaysOfWeek, Days: []int{1, 3}}.Summary())
	assert.Equal(t, "Repeats every 2 days", RepeatRule{Kind: RepeatCustom, Interval: 2, Unit: UnitDay}.Summary())
	assert.Equal(t, "Repeats every 1 week", RepeatRule{Kind: RepeatCustom, Interval: 1, Unit: UnitWeek}.Summary())
}

func TestParseDayName(t *testing.T) {
	d, ok := ParseDayName("mon")
	require.True(t, ok)
	assert.Equal(t, 1, d)

	d, ok = ParseDayName(" Sat ")
	require.True(t, ok)
	assert.Equal(t, 6, d)

	_, ok = ParseDayName("midweek")
	assert.False(t, ok)
}
