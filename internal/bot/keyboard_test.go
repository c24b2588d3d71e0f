package bot

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkarvon/muistutin/internal/clock"
	"github.com/jkarvon/muistutin/internal/domain"
	"github.com/jkarvon/muistutin/internal/engine"
	"github.com/jkarvon/muistutin/internal/service"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	clk := clock.NewAdjustable(time.UTC)
	clk.Set(time.Date(2024, time.January, 9, 8, 0, 0, 0, time.UTC))
	return engine.New(clk)
}

func buttonData(t *testing.T, btn tgbotapi.InlineKeyboardButton) string {
	t.Helper()
	require.NotNil(t, btn.CallbackData)
	return *btn.CallbackData
}

func TestTodayKeyboardTogglesCarryTodayView(t *testing.T) {
	eng := newTestEngine(t)
	items := []service.Item{
		{Pos: 1, Reminder: &domain.Reminder{Title: "Take medicine", AssignedTo: "Anna"}},
		{Pos: 3, Reminder: &domain.Reminder{Title: "Feed the cat", AssignedTo: "Ben"}},
	}

	kb := todayKeyboard(items, eng)
	require.NotNil(t, kb)
	require.GreaterOrEqual(t, len(kb.InlineKeyboard), 3)

	assert.Equal(t, "toggle:1:today", buttonData(t, kb.InlineKeyboard[0][0]))
	assert.Equal(t, "toggle:3:today", buttonData(t, kb.InlineKeyboard[1][0]))
}

func TestListKeyboardTogglesCarryListView(t *testing.T) {
	eng := newTestEngine(t)
	items := []service.Item{
		{Pos: 1, Reminder: &domain.Reminder{Title: "Take medicine", AssignedTo: "Anna"}},
		{Pos: 2, Reminder: &domain.Reminder{Title: "Feed the cat", AssignedTo: "Ben"}},
	}

	kb := listKeyboard(items, eng)
	require.NotNil(t, kb)
	require.GreaterOrEqual(t, len(kb.InlineKeyboard), 3)

	assert.Equal(t, "toggle:1:list", buttonData(t, kb.InlineKeyboard[0][0]))
	assert.Equal(t, "del:1", buttonData(t, kb.InlineKeyboard[0][1]))
	assert.Equal(t, "toggle:2:list", buttonData(t, kb.InlineKeyboard[1][0]))
}

func TestConfirmDemoKeyboard(t *testing.T) {
	kb := confirmDemoKeyboard()
	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 2)

	assert.Equal(t, "confirm_demo", buttonData(t, kb.InlineKeyboard[0][0]))
	assert.Equal(t, "menu:today", buttonData(t, kb.InlineKeyboard[0][1]))
}

func TestConfirmDeleteKeyboard(t *testing.T) {
	kb := confirmDeleteKeyboard(4)
	require.Len(t, kb.InlineKeyboard, 1)

	assert.Equal(t, "confirm_del:4", buttonData(t, kb.InlineKeyboard[0][0]))
	assert.Equal(t, "menu:list", buttonData(t, kb.InlineKeyboard[0][1]))
}
