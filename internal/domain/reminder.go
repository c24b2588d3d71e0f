package domain

import (
	"time"
)

// Deadline encodings. Repeating reminders store a bare time of day which is
// applied to the current day; one-off reminders store a full date and time.
const (
	DeadlineTimeLayout     = "15:04"
	DeadlineDateTimeLayout = "2006-01-02T15:04"
)

// HistoryEntry records one completion-state toggle at an instant. Entries
// are immutable once appended.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Done      bool      `json:"done"`
}

// Reminder is a recurring or one-off item assigned to a household member.
//
// Done is a legacy flag that is authoritative only for one-off reminders;
// for repeating reminders the per-day done state is resolved from History.
type Reminder struct {
	Title      string         `json:"title"`
	AssignedTo string         `json:"assignedTo"`
	Done       bool           `json:"done"`
	Repeat     RepeatRule     `json:"repeat"`
	History    []HistoryEntry `json:"history"`
	Deadline   string         `json:"deadline"`
}

// SameDay reports whether a and b fall on the same calendar day in b's
// location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DoneOnDay resolves the reminder's done state for the calendar day of the
// given instant: the chronologically last history entry on that day wins,
// and a day with no entries is not done.
func (r *Reminder) DoneOnDay(day time.Time) bool {
	for i := len(r.History) - 1; i >= 0; i-- {
		if SameDay(r.History[i].Timestamp, day) {
			return r.History[i].Done
		}
	}
	return false
}

// LastCompletion returns the most recent history entry with Done set, if
// any. For one-off reminders its calendar day decides whether the item is
// still shown.
func (r *Reminder) LastCompletion() (HistoryEntry, bool) {
	for i := len(r.History) - 1; i >= 0; i-- {
		if r.History[i].Done {
			return r.History[i], true
		}
	}
	return HistoryEntry{}, false
}

// AppendHistory appends one entry. The log is append-only; prior entries
// are never edited or removed.
func (r *Reminder) AppendHistory(at time.Time, done bool) {
	r.History = append(r.History, HistoryEntry{Timestamp: at, Done: done})
}

// DeadlineAt resolves the deadline to an instant relative to now: a one-off
// deadline parses as an absolute date-time in now's location, a repeating
// deadline combines its time of day with now's date. The second return is
// false when no deadline is set or it does not parse.
func (r *Reminder) DeadlineAt(now time.Time) (time.Time, bool) {
	if r.Deadline == "" {
		return time.Time{}, false
	}
	loc := now.Location()
	if !r.Repeat.IsRepeating() {
		t, err := time.ParseInLocation(DeadlineDateTimeLayout, r.Deadline, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	t, err := time.ParseInLocation(DeadlineTimeLayout, r.Deadline, loc)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc), true
}
