package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jkarvon/muistutin/internal/engine"
	"github.com/jkarvon/muistutin/internal/service"
)

// Today keyboard: one toggle button per not-yet-done due reminder.
func todayKeyboard(items []service.Item, eng *engine.Engine) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, it := range items {
		if eng.IsDoneToday(it.Reminder) {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("✅ %s", truncate(it.Reminder.Title, 30)),
				fmt.Sprintf("toggle:%d:today", it.Pos),
			),
		))
		if len(rows) >= 10 {
			break
		}
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📋 All reminders", "menu:list"),
		tgbotapi.NewInlineKeyboardButtonData("🔄", "refresh:today"),
	))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}

// List keyboard: toggle and delete per reminder, capped to keep the
// message compact.
func listKeyboard(items []service.Item, eng *engine.Engine) *tgbotapi.InlineKeyboardMarkup {
	if len(items) == 0 {
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("✅ #%d %s", it.Pos, truncate(it.Reminder.Title, 20)),
				fmt.Sprintf("toggle:%d:list", it.Pos),
			),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("del:%d", it.Pos)),
		))
		if len(rows) >= 8 {
			break
		}
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📅 Today", "menu:today"),
		tgbotapi.NewInlineKeyboardButtonData("🔄", "refresh:list"),
	))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}

func confirmDeleteKeyboard(pos int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Yes, delete", fmt.Sprintf("confirm_del:%d", pos)),
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancel", "menu:list"),
		),
	)
}

func confirmDemoKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎬 Yes, load demo data", "confirm_demo"),
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancel", "menu:today"),
		),
	)
}
