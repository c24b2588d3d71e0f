package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jkarvon/muistutin/internal/domain"
)

// reminderInput is the parsed form of an /add or /edit argument string:
//
//	Title | Member | repeat | deadline
//
// repeat and deadline may be omitted; a missing repeat means a one-off and
// a missing deadline defaults to 08:00 (today for one-offs).
type reminderInput struct {
	Title    string
	Assignee string
	Repeat   domain.RepeatRule
	Deadline string
}

func parseReminderInput(args string, now time.Time) (reminderInput, error) {
	parts := strings.Split(args, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	in := reminderInput{Repeat: domain.RepeatRule{Kind: domain.RepeatNone}}
	if len(parts) > 0 {
		in.Title = parts[0]
	}
	if len(parts) > 1 {
		in.Assignee = parts[1]
	}

	if len(parts) > 2 && parts[2] != "" {
		rule, err := parseRepeat(parts[2])
		if err != nil {
			return in, err
		}
		in.Repeat = rule
	}

	deadline := ""
	if len(parts) > 3 {
		deadline = parts[3]
	}
	parsed, err := parseDeadline(in.Repeat, deadline, now)
	if err != nil {
		return in, err
	}
	in.Deadline = parsed
	return in, nil
}

// parseRepeat understands "none", "everyday", "weekdays", "weekends",
// comma-separated day names ("mon,wed") and "every N days|weeks|months".
func parseRepeat(s string) (domain.RepeatRule, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "none":
		return domain.RepeatRule{Kind: domain.RepeatNone}, nil
	case "everyday", "every day", "daily":
		return domain.RepeatRule{Kind: domain.RepeatEveryday}, nil
	case "weekdays":
		return domain.RepeatRule{Kind: domain.RepeatWeekdays}, nil
	case "weekends":
		return domain.RepeatRule{Kind: domain.RepeatWeekends}, nil
	}

	if rest, ok := strings.CutPrefix(s, "every "); ok {
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return domain.RepeatRule{}, fmt.Errorf("Repeat must look like: every 2 days")
		}
		interval, err := strconv.Atoi(fields[0])
		if err != nil || interval < 1 {
			return domain.RepeatRule{}, fmt.Errorf("Repeat interval must be a positive number")
		}
		unit := domain.IntervalUnit(strings.TrimSuffix(fields[1], "s"))
		switch unit {
		case domain.UnitDay, domain.UnitWeek, domain.UnitMonth:
		default:
			return domain.RepeatRule{}, fmt.Errorf("Repeat unit must be day, week or month")
		}
		return domain.RepeatRule{Kind: domain.RepeatCustom, Interval: interval, Unit: unit}, nil
	}

	var days []int
	for _, part := range strings.Split(s, ",") {
		d, ok := domain.ParseDayName(part)
		if !ok {
			return domain.RepeatRule{}, fmt.Errorf("Unknown repeat rule: %s", s)
		}
		days = append(days, d)
	}
	rule := domain.RepeatRule{Kind: domain.RepeatDaysOfWeek, Days: days}
	rule.Normalize()
	return rule, nil
}

// parseDeadline normalizes the deadline to its stored encoding: "HH:MM"
// for repeating rules, "YYYY-MM-DDTHH:MM" for one-offs. A bare time on a
// one-off lands on the current day.
func parseDeadline(rule domain.RepeatRule, s string, now time.Time) (string, error) {
	if s == "" {
		s = "08:00"
	}

	if rule.IsRepeating() {
		t, err := time.Parse(domain.DeadlineTimeLayout, s)
		if err != nil {
			return "", fmt.Errorf("Deadline must look like 07:30")
		}
		return t.Format(domain.DeadlineTimeLayout), nil
	}

	for _, layout := range []string{domain.DeadlineDateTimeLayout, "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t.Format(domain.DeadlineDateTimeLayout), nil
		}
	}
	if t, err := time.Parse(domain.DeadlineTimeLayout, s); err == nil {
		return now.Format("2006-01-02") + "T" + t.Format(domain.DeadlineTimeLayout), nil
	}
	return "", fmt.Errorf("Deadline must look like 2024-01-10 08:30")
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
