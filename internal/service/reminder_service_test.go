package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkarvon/muistutin/internal/clock"
	"github.com/jkarvon/muistutin/internal/domain"
	"github.com/jkarvon/muistutin/internal/engine"
	"github.com/jkarvon/muistutin/internal/storage"
)

type fixture struct {
	storage   *storage.Storage
	clock     *clock.Adjustable
	members   *MemberService
	reminders *ReminderService
}

// newFixture wires storage, clock, engine and both services, with the
// clock frozen at Tuesday 2024-01-09 08:00 UTC.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clk := clock.NewAdjustable(time.UTC)
	clk.Set(time.Date(2024, time.January, 9, 8, 0, 0, 0, time.UTC))

	members := NewMemberService(s)
	reminders := NewReminderService(s, members, engine.New(clk))
	return &fixture{storage: s, clock: clk, members: members, reminders: reminders}
}

func TestMemberValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.members.Add("   ")
	assert.ErrorIs(t, err, ErrEmptyName)

	name, err := f.members.Add("  Anna ")
	require.NoError(t, err)
	assert.Equal(t, "Anna", name)

	_, err = f.members.Add("Anna")
	assert.ErrorIs(t, err, ErrDuplicateMember)

	assert.Equal(t, []string{"Anna"}, f.members.List())
}

func TestAddReminderValidation(t *testing.T) {
	f := newFixture(t)
	f.members.Add("Anna")
	everyday := domain.RepeatRule{Kind: domain.RepeatEveryday}

	_, err := f.reminders.Add("  ", "Anna", everyday, "07:30")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = f.reminders.Add("Take medicine", "", everyday, "07:30")
	assert.ErrorIs(t, err, ErrNoAssignee)

	_, err = f.reminders.Add("Take medicine", "Nobody", everyday, "07:30")
	assert.ErrorIs(t, err, ErrUnknownMember)

	_, err = f.reminders.Add("Take medicine", "Anna", domain.RepeatRule{Kind: domain.RepeatCustom}, "07:30")
	assert.Error(t, err)

	// A failed add leaves the list untouched.
	assert.Empty(t, f.reminders.All())

	r, err := f.reminders.Add("Take medicine", "Anna", everyday, "07:30")
	require.NoError(t, err)
	assert.Equal(t, "Take medicine", r.Title)
	assert.NotNil(t, r.History)
	assert.False(t, r.Done)
}

func TestEditPreservesHistoryAndDone(t *testing.T) {
	f := newFixture(t)
	f.members.Add("Anna")
	f.members.Add("Ben")

	_, err := f.reminders.Add("Take medicine", "Anna", domain.RepeatRule{Kind: domain.RepeatEveryday}, "07:30")
	require.NoError(t, err)
	_, err = f.reminders.Toggle(1)
	require.NoError(t, err)

	r, err := f.reminders.Edit(1, "Take vitamins", "Ben", domain.RepeatRule{Kind: domain.RepeatWeekdays}, "08:00")
	require.NoError(t, err)
	assert.Equal(t, "Take vitamins", r.Title)
	assert.Equal(t, "Ben", r.AssignedTo)
	assert.Equal(t, domain.RepeatWeekdays, r.Repeat.Kind)
	assert.Len(t, r.History, 1)
}

func TestTogglePersistsAcrossReload(t *testing.T) {
	f := newFixture(t)
	f.members.Add("Anna")
	f.reminders.Add("Take medicine", "Anna", domain.RepeatRule{Kind: domain.RepeatEveryday}, "07:30")

	_, err := f.reminders.Toggle(1)
	require.NoError(t, err)
	_, err = f.reminders.Toggle(1)
	require.NoError(t, err)

	reloaded, err := f.storage.LoadReminders()
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	assert.Len(t, reloaded[0].History, 2)
}

func TestRemoveShiftsPositions(t *testing.T) {
	f := newFixture(t)
	f.members.Add("Anna")
	f.reminders.Add("First", "Anna", domain.RepeatRule{Kind: domain.RepeatEveryday}, "07:00")
	f.reminders.Add("Second", "Anna", domain.RepeatRule{Kind: domain.RepeatEveryday}, "08:00")

	require.NoError(t, f.reminders.Remove(1))

	items := f.reminders.All()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Pos)
	assert.Equal(t, "Second", items[0].Reminder.Title)

	assert.ErrorIs(t, f.reminders.Remove(5), ErrNotFound)
}

func TestDueTodayFilter(t *testing.T) {
	f := newFixture(t) // Tuesday
	f.members.Add("Anna")

	f.reminders.Add("Every day", "Anna", domain.RepeatRule{Kind: domain.RepeatEveryday}, "07:30")
	f.reminders.Add("Weekends only", "Anna", domain.RepeatRule{Kind: domain.RepeatWeekends}, "09:00")
	f.reminders.Add("Mon and Wed", "Anna", domain.RepeatRule{Kind: domain.RepeatDaysOfWeek, Days: []int{1, 3}}, "07:45")

	due := f.reminders.DueToday()
	require.Len(t, due, 1)
	assert.Equal(t, "Every day", due[0].Reminder.Title)
	assert.Equal(t, 1, due[0].Pos)

	// Saturday: the weekend reminder takes over, keeping its absolute
	// position in the full list.
	f.clock.Set(time.Date(2024, time.January, 13, 8, 0, 0, 0, time.UTC))
	due = f.reminders.DueToday()
	require.Len(t, due, 2)
	assert.Equal(t, "Weekends only", due[1].Reminder.Title)
	assert.Equal(t, 2, due[1].Pos)
}

func TestOrphanedAssignmentSurvives(t *testing.T) {
	f := newFixture(t)
	f.members.Add("Anna")
	f.reminders.Add("Take medicine", "Anna", domain.RepeatRule{Kind: domain.RepeatEveryday}, "07:30")

	// The member set can be replaced out from under existing reminders;
	// the stale assignment is kept and displayed as-is.
	f.members.ReplaceAll([]string{"Ben"})

	r, err := f.reminders.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Anna", r.AssignedTo)
}

func TestLoadDemoData(t *testing.T) {
	f := newFixture(t)
	f.reminders.LoadDemoData()

	assert.Equal(t, []string{"Anna", "Ben", "Charlie"}, f.members.List())
	items := f.reminders.All()
	require.Len(t, items, 6)

	kinds := map[domain.RepeatKind]bool{}
	for _, it := range items {
		kinds[it.Reminder.Repeat.Kind] = true
		assert.NotNil(t, it.Reminder.History)
	}
	for _, k := range []domain.RepeatKind{
		domain.RepeatNone, domain.RepeatEveryday, domain.RepeatWeekdays,
		domain.RepeatWeekends, domain.RepeatDaysOfWeek, domain.RepeatCustom,
	} {
		assert.True(t, kinds[k], "missing repeat kind %s", k)
	}

	// The one-off deadline lands on the frozen current day.
	oneOff := items[5].Reminder
	assert.Equal(t, "2024-01-09T08:30", oneOff.Deadline)
}

func TestFormatList(t *testing.T) {
	f := newFixture(t)
	f.members.Add("Anna")
	f.reminders.Add("Take medicine", "Anna", domain.RepeatRule{Kind: domain.RepeatEveryday}, "07:30")

	text := f.reminders.FormatList(f.reminders.All())
	assert.Contains(t, text, "Take medicine")
	assert.Contains(t, text, "Anna")
	assert.Contains(t, text, "Repeats every day")
	assert.Contains(t, text, "late") // 08:00 > 07:30 and not done

	assert.Equal(t, "Nothing here.", f.reminders.FormatList(nil))
}
