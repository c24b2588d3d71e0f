// Package engine derives the per-day view of a reminder: is it due today,
// done today, late, and how its deadline and completion history render.
// Completion history is the single source of truth for repeating reminders;
// no daily state is cached.
package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/jkarvon/muistutin/internal/clock"
	"github.com/jkarvon/muistutin/internal/domain"
)

// Engine answers the derived questions about reminders. Every method
// samples the injected clock exactly once, so one evaluation never mixes
// two different "now" values across a day boundary.
type Engine struct {
	clock clock.Clock
}

func New(c clock.Clock) *Engine {
	return &Engine{clock: c}
}

// Now exposes the engine's current instant for display headers.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// IsDoneToday reports whether the reminder counts as done for the current
// calendar day. One-off reminders use their persistent Done flag;
// repeating reminders resolve the day from history.
func (e *Engine) IsDoneToday(r *domain.Reminder) bool {
	return isDoneOn(r, e.clock.Now())
}

func isDoneOn(r *domain.Reminder, day time.Time) bool {
	if !r.Repeat.IsRepeating() {
		return r.Done
	}
	return r.DoneOnDay(day)
}

// IsDueToday reports whether the reminder belongs in today's active list.
// A one-off stays visible until completed and through the remainder of the
// day it was completed; repeating reminders delegate to the repeat rule.
func (e *Engine) IsDueToday(r *domain.Reminder) bool {
	now := e.clock.Now()
	if !r.Repeat.IsRepeating() {
		last, ok := r.LastCompletion()
		if !ok {
			return true
		}
		return !startOfDay(last.Timestamp.In(now.Location())).Before(startOfDay(now))
	}
	return r.Repeat.DueOn(now)
}

// IsLate reports whether the deadline has passed without the reminder
// being done for today.
func (e *Engine) IsLate(r *domain.Reminder) bool {
	now := e.clock.Now()
	if isDoneOn(r, now) {
		return false
	}
	deadline, ok := r.DeadlineAt(now)
	if !ok {
		return false
	}
	return now.After(deadline)
}

// TimeToDeadline renders the signed distance to the deadline, rounded to
// the nearest minute: "in N min", "now", or "N min ago". Empty when no
// deadline is set.
func (e *Engine) TimeToDeadline(r *domain.Reminder) string {
	now := e.clock.Now()
	deadline, ok := r.DeadlineAt(now)
	if !ok {
		return ""
	}
	minutes := int(math.Round(deadline.Sub(now).Minutes()))
	switch {
	case minutes > 0:
		return fmt.Sprintf("in %d min", minutes)
	case minutes == 0:
		return "now"
	default:
		return fmt.Sprintf("%d min ago", -minutes)
	}
}

// FormatDeadline renders the deadline: date plus time for a one-off, bare
// time of day for repeating reminders.
func (e *Engine) FormatDeadline(r *domain.Reminder) string {
	if r.Deadline == "" {
		return ""
	}
	now := e.clock.Now()
	if !r.Repeat.IsRepeating() {
		deadline, ok := r.DeadlineAt(now)
		if !ok {
			return r.Deadline
		}
		return deadline.Format("02.01.06 15:04")
	}
	return r.Deadline
}

// LastCompletion renders the most recent completion as "Last done: today
// at 09:05", with "yesterday" or a date for older completions. Empty when
// never completed.
func (e *Engine) LastCompletion(r *domain.Reminder) string {
	last, ok := r.LastCompletion()
	if !ok {
		return ""
	}
	now := e.clock.Now()
	done := last.Timestamp.In(now.Location())

	var day string
	switch {
	case domain.SameDay(done, now):
		day = "today"
	case domain.SameDay(done, now.AddDate(0, 0, -1)):
		day = "yesterday"
	default:
		day = done.Format("02.01.06")
	}
	return fmt.Sprintf("Last done: %s at %s", day, done.Format("15:04"))
}

// ToggleDone flips the reminder's done state for today and appends one
// history entry. The new state is the negation of the currently resolved
// state, never a caller-supplied value, and entries are never coalesced:
// toggling twice on the same day appends twice.
func (e *Engine) ToggleDone(r *domain.Reminder) {
	now := e.clock.Now()
	if !r.Repeat.IsRepeating() {
		r.Done = !r.Done
		r.AppendHistory(now, r.Done)
		return
	}
	r.AppendHistory(now, !r.DoneOnDay(now))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
