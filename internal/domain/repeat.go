package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RepeatKind identifies one variant of the repeat rule.
type RepeatKind string

const (
	RepeatNone       RepeatKind = "none"
	RepeatEveryday   RepeatKind = "everyday"
	RepeatWeekdays   RepeatKind = "weekdays"
	RepeatWeekends   RepeatKind = "weekends"
	RepeatDaysOfWeek RepeatKind = "daysOfWeek"
	RepeatCustom     RepeatKind = "custom"
)

// IntervalUnit is the unit of a custom repeat interval. The due predicate
// counts in days regardless of the unit; the unit only shows up in the
// summary text.
type IntervalUnit string

const (
	UnitDay   IntervalUnit = "day"
	UnitWeek  IntervalUnit = "week"
	UnitMonth IntervalUnit = "month"
)

// RepeatRule describes on which calendar days a reminder recurs.
// Exactly one variant is active, selected by Kind; Days is meaningful only
// for daysOfWeek, Interval and Unit only for custom.
type RepeatRule struct {
	Kind     RepeatKind   `json:"type"`
	Days     []int        `json:"days,omitempty"`
	Interval int          `json:"interval,omitempty"`
	Unit     IntervalUnit `json:"unit,omitempty"`
}

var dayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Normalize sorts and dedupes Days and clears fields that do not belong to
// the active variant.
func (r *RepeatRule) Normalize() {
	if r.Kind != RepeatDaysOfWeek {
		r.Days = nil
	} else {
		seen := map[int]bool{}
		var days []int
		for _, d := range r.Days {
			if d >= 0 && d <= 6 && !seen[d] {
				seen[d] = true
				days = append(days, d)
			}
		}
		sort.Ints(days)
		r.Days = days
	}
	if r.Kind != RepeatCustom {
		r.Interval = 0
		r.Unit = ""
	}
}

// Validate reports whether the rule is well-formed.
func (r RepeatRule) Validate() error {
	switch r.Kind {
	case RepeatNone, RepeatEveryday, RepeatWeekdays, RepeatWeekends:
		return nil
	case RepeatDaysOfWeek:
		for _, d := range r.Days {
			if d < 0 || d > 6 {
				return fmt.Errorf("day of week out of range: %d", d)
			}
		}
		return nil
	case RepeatCustom:
		if r.Interval < 1 {
			return fmt.Errorf("custom interval must be at least 1, got %d", r.Interval)
		}
		switch r.Unit {
		case UnitDay, UnitWeek, UnitMonth:
			return nil
		default:
			return fmt.Errorf("unknown interval unit: %q", r.Unit)
		}
	default:
		return fmt.Errorf("unknown repeat kind: %q", r.Kind)
	}
}

// IsRepeating reports whether the rule recurs. A "none" rule is a one-off
// whose visibility is driven by its completion history, not by the rule.
func (r RepeatRule) IsRepeating() bool {
	return r.Kind != RepeatNone && r.Kind != ""
}

// DueOn reports whether a reminder with this rule is due on the calendar
// day of t. One-off rules always return false here; their due state comes
// from the completion history.
func (r RepeatRule) DueOn(t time.Time) bool {
	day := int(t.Weekday())
	switch r.Kind {
	case RepeatEveryday:
		return true
	case RepeatWeekdays:
		return day >= 1 && day <= 5
	case RepeatWeekends:
		return day == 0 || day == 6
	case RepeatDaysOfWeek:
		for _, d := range r.Days {
			if d == day {
				return true
			}
		}
		return false
	case RepeatCustom:
		if r.Interval < 1 {
			return false
		}
		// Day-count cadence from January 1st of the current year.
		// January 1st itself (zero days elapsed) is always due.
		elapsed := t.YearDay() - 1
		return elapsed%r.Interval == 0
	default:
		return false
	}
}

// Summary returns the human-readable description of the rule.
func (r RepeatRule) Summary() string {
	switch r.Kind {
	case RepeatNone, "":
		return "Does not repeat"
	case RepeatEveryday:
		return "Repeats every day"
	case RepeatWeekdays:
		return "Repeats on weekdays"
	case RepeatWeekends:
		return "Repeats on weekends"
	case RepeatDaysOfWeek:
		names := make([]string, 0, len(r.Days))
		for _, d := range r.Days {
			if d >= 0 && d < len(dayNames) {
				names = append(names, dayNames[d])
			}
		}
		return "Repeats on " + strings.Join(names, ", ")
	case RepeatCustom:
		plural := ""
		if r.Interval > 1 {
			plural = "s"
		}
		return fmt.Sprintf("Repeats every %d %s%s", r.Interval, r.Unit, plural)
	default:
		return ""
	}
}

// DayName returns the short English name for a weekday number (0=Sun).
func DayName(d int) string {
	if d >= 0 && d < len(dayNames) {
		return dayNames[d]
	}
	return ""
}

// ParseDayName parses a short English weekday name (case-insensitive).
func ParseDayName(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range dayNames {
		if strings.ToLower(name) == s {
			return i, true
		}
	}
	return 0, false
}
