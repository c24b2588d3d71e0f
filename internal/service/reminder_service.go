package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jkarvon/muistutin/internal/domain"
	"github.com/jkarvon/muistutin/internal/engine"
	"github.com/jkarvon/muistutin/internal/storage"
)

var (
	ErrEmptyTitle    = errors.New("Title cannot be empty")
	ErrNoAssignee    = errors.New("Please assign to a member")
	ErrUnknownMember = errors.New("Assignee is not a family member")
	ErrNotFound      = errors.New("reminder not found")
)

// Item pairs a reminder with its 1-based position in the full list. The
// bot commands and callbacks address reminders by that position.
type Item struct {
	Pos      int
	Reminder *domain.Reminder
}

// ReminderService owns the ordered reminder list and every mutation on it.
// Each mutation either succeeds or returns one human-readable error and
// leaves prior state untouched; after a successful mutation the list is
// re-persisted (save failures are logged, never surfaced).
type ReminderService struct {
	mu        sync.RWMutex
	storage   *storage.Storage
	members   *MemberService
	engine    *engine.Engine
	reminders []*domain.Reminder
}

func NewReminderService(s *storage.Storage, members *MemberService, eng *engine.Engine) *ReminderService {
	reminders, err := s.LoadReminders()
	if err != nil {
		log.Printf("Error loading reminders: %v", err)
		reminders = []*domain.Reminder{}
	}
	return &ReminderService{
		storage:   s,
		members:   members,
		engine:    eng,
		reminders: reminders,
	}
}

func (s *ReminderService) Engine() *engine.Engine {
	return s.engine
}

func (s *ReminderService) validate(title, assignee string, rule domain.RepeatRule) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if assignee == "" {
		return "", ErrNoAssignee
	}
	if !s.members.Has(assignee) {
		return "", ErrUnknownMember
	}
	if err := rule.Validate(); err != nil {
		return "", err
	}
	return title, nil
}

// Add creates a reminder with empty history. The assignee must be a
// registered member at creation time.
func (s *ReminderService) Add(title, assignee string, rule domain.RepeatRule, deadline string) (*domain.Reminder, error) {
	title, err := s.validate(title, assignee, rule)
	if err != nil {
		return nil, err
	}
	rule.Normalize()

	r := &domain.Reminder{
		Title:      title,
		AssignedTo: assignee,
		Repeat:     rule,
		History:    []domain.HistoryEntry{},
		Deadline:   deadline,
	}

	s.mu.Lock()
	s.reminders = append(s.reminders, r)
	s.persistLocked()
	s.mu.Unlock()
	return r, nil
}

// Edit replaces title, assignee, repeat rule and deadline of the reminder
// at pos, preserving its done flag and history.
func (s *ReminderService) Edit(pos int, title, assignee string, rule domain.RepeatRule, deadline string) (*domain.Reminder, error) {
	title, err := s.validate(title, assignee, rule)
	if err != nil {
		return nil, err
	}
	rule.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.atLocked(pos)
	if err != nil {
		return nil, err
	}
	r.Title = title
	r.AssignedTo = assignee
	r.Repeat = rule
	r.Deadline = deadline
	s.persistLocked()
	return r, nil
}

// Remove deletes the reminder at pos. Positions after it shift down by one.
func (s *ReminderService) Remove(pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.atLocked(pos); err != nil {
		return err
	}
	s.reminders = append(s.reminders[:pos-1], s.reminders[pos:]...)
	s.persistLocked()
	return nil
}

// Toggle flips today's done state of the reminder at pos, appending exactly
// one history entry.
func (s *ReminderService) Toggle(pos int) (*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.atLocked(pos)
	if err != nil {
		return nil, err
	}
	s.engine.ToggleDone(r)
	s.persistLocked()
	return r, nil
}

// Get returns the reminder at the given 1-based position.
func (s *ReminderService) Get(pos int) (*domain.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.atLocked(pos)
}

// All returns every reminder with its position.
func (s *ReminderService) All() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, 0, len(s.reminders))
	for i, r := range s.reminders {
		items = append(items, Item{Pos: i + 1, Reminder: r})
	}
	return items
}

// DueToday returns the reminders that belong in today's active list, in
// list order, keeping their absolute positions.
func (s *ReminderService) DueToday() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []Item
	for i, r := range s.reminders {
		if s.engine.IsDueToday(r) {
			items = append(items, Item{Pos: i + 1, Reminder: r})
		}
	}
	return items
}

// FormatItem renders one reminder as an HTML line block for the bot.
func (s *ReminderService) FormatItem(it Item) string {
	r := it.Reminder
	var sb strings.Builder

	mark := "⬜"
	if s.engine.IsDoneToday(r) {
		mark = "✅"
	}
	fmt.Fprintf(&sb, "%s <b>#%d %s</b> — %s\n", mark, it.Pos, r.Title, r.AssignedTo)
	fmt.Fprintf(&sb, "   %s", r.Repeat.Summary())
	if deadline := s.engine.FormatDeadline(r); deadline != "" {
		fmt.Fprintf(&sb, ", due %s (%s)", deadline, s.engine.TimeToDeadline(r))
	}
	if s.engine.IsLate(r) {
		sb.WriteString(" ⏰ late")
	}
	if last := s.engine.LastCompletion(r); last != "" {
		sb.WriteString("\n   " + last)
	}
	return sb.String()
}

// FormatList renders a list of reminders, one block per item.
func (s *ReminderService) FormatList(items []Item) string {
	if len(items) == 0 {
		return "Nothing here."
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, s.FormatItem(it))
	}
	return strings.Join(lines, "\n\n")
}

// LoadDemoData replaces members and reminders with a canned household set
// covering every repeat kind. The one-off deadline lands on the current
// day so the demo is immediately interesting.
func (s *ReminderService) LoadDemoData() {
	s.members.ReplaceAll([]string{"Anna", "Ben", "Charlie"})

	today := s.engine.Now().Format("2006-01-02")
	demo := []*domain.Reminder{
		{Title: "Take medicine", AssignedTo: "Anna", Repeat: domain.RepeatRule{Kind: domain.RepeatEveryday}, Deadline: "07:30"},
		{Title: "Bring phone", AssignedTo: "Ben", Repeat: domain.RepeatRule{Kind: domain.RepeatWeekdays}, Deadline: "08:00"},
		{Title: "Pack gym clothes", AssignedTo: "Charlie", Repeat: domain.RepeatRule{Kind: domain.RepeatDaysOfWeek, Days: []int{1, 3}}, Deadline: "07:45"},
		{Title: "Take out trash", AssignedTo: "Anna", Repeat: domain.RepeatRule{Kind: domain.RepeatCustom, Interval: 2, Unit: domain.UnitDay}, Deadline: "08:15"},
		{Title: "Feed the cat", AssignedTo: "Ben", Repeat: domain.RepeatRule{Kind: domain.RepeatWeekends}, Deadline: "09:00"},
		{Title: "Sign school form", AssignedTo: "Anna", Repeat: domain.RepeatRule{Kind: domain.RepeatNone}, Deadline: today + "T08:30"},
	}
	for _, r := range demo {
		r.History = []domain.HistoryEntry{}
	}

	s.mu.Lock()
	s.reminders = demo
	s.persistLocked()
	s.mu.Unlock()
}

func (s *ReminderService) atLocked(pos int) (*domain.Reminder, error) {
	if pos < 1 || pos > len(s.reminders) {
		return nil, ErrNotFound
	}
	return s.reminders[pos-1], nil
}

func (s *ReminderService) persistLocked() {
	if err := s.storage.SaveReminders(s.reminders); err != nil {
		log.Printf("Error saving reminders: %v", err)
	}
}
