package bot

import (
	"context"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !b.cfg.IsAllowedUser(msg.From.ID) {
		b.SendMessage(chatID, "⛔ Access denied")
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	// Bare text is treated as a quick /add.
	b.cmdAdd(chatID, text)
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	msgID := callback.Message.MessageID

	if !b.cfg.IsAllowedUser(callback.From.ID) {
		b.api.Request(tgbotapi.NewCallback(callback.ID, "⛔ Access denied"))
		return
	}

	data := callback.Data
	parts := strings.Split(data, ":")

	switch parts[0] {
	case "toggle":
		if len(parts) < 2 {
			return
		}
		pos, _ := strconv.Atoi(parts[1])
		r, err := b.reminderService.Toggle(pos)
		if err != nil {
			b.api.Request(tgbotapi.NewCallback(callback.ID, err.Error()))
			return
		}
		note := "Marked not done"
		if b.engine.IsDoneToday(r) {
			note = "Done for today"
		}
		b.api.Request(tgbotapi.NewCallback(callback.ID, note))
		// The button carries its originating view so a toggle from /list
		// rerenders the list, not the today view.
		view := "today"
		if len(parts) > 2 {
			view = parts[2]
		}
		b.rerenderView(chatID, msgID, view)

	case "del":
		if len(parts) < 2 {
			return
		}
		pos, _ := strconv.Atoi(parts[1])
		r, err := b.reminderService.Get(pos)
		if err != nil {
			b.api.Request(tgbotapi.NewCallback(callback.ID, err.Error()))
			return
		}
		b.api.Request(tgbotapi.NewCallback(callback.ID, ""))
		kb := confirmDeleteKeyboard(pos)
		b.editMessage(chatID, msgID, "Delete reminder <b>"+r.Title+"</b>?", &kb)

	case "confirm_del":
		if len(parts) < 2 {
			return
		}
		pos, _ := strconv.Atoi(parts[1])
		if err := b.reminderService.Remove(pos); err != nil {
			b.api.Request(tgbotapi.NewCallback(callback.ID, err.Error()))
			return
		}
		b.pruneCalendarTail()
		b.refreshCalendar()
		b.api.Request(tgbotapi.NewCallback(callback.ID, "Deleted"))
		b.editMessage(chatID, msgID, b.renderList(), listKeyboard(b.reminderService.All(), b.engine))

	case "confirm_demo":
		b.reminderService.LoadDemoData()
		b.refreshCalendar()
		b.api.Request(tgbotapi.NewCallback(callback.ID, "Demo data loaded"))
		b.editMessage(chatID, msgID, b.renderToday(), todayKeyboard(b.reminderService.DueToday(), b.engine))

	case "refresh", "menu":
		if len(parts) < 2 {
			return
		}
		b.api.Request(tgbotapi.NewCallback(callback.ID, ""))
		b.rerenderView(chatID, msgID, parts[1])

	default:
		b.api.Request(tgbotapi.NewCallback(callback.ID, ""))
	}
}

func (b *Bot) rerenderView(chatID int64, msgID int, view string) {
	switch view {
	case "list":
		b.editMessage(chatID, msgID, b.renderList(), listKeyboard(b.reminderService.All(), b.engine))
	default:
		b.editMessage(chatID, msgID, b.renderToday(), todayKeyboard(b.reminderService.DueToday(), b.engine))
	}
}

func (b *Bot) refreshCalendar() {
	if b.calendarService == nil {
		return
	}
	if err := b.calendarService.Refresh(context.Background()); err != nil {
		log.Printf("Error refreshing calendar: %v", err)
	}
}

// pruneCalendarTail removes the stale trailing CalDAV object after a
// reminder is deleted and the list shrinks.
func (b *Bot) pruneCalendarTail() {
	if b.calendarService == nil {
		return
	}
	if err := b.calendarService.PruneTail(context.Background()); err != nil {
		log.Printf("Error pruning calendar object: %v", err)
	}
}
