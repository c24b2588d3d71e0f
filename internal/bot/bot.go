package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jkarvon/muistutin/config"
	"github.com/jkarvon/muistutin/internal/clock"
	"github.com/jkarvon/muistutin/internal/engine"
	"github.com/jkarvon/muistutin/internal/service"
)

// Bot is the Telegram surface over the reminder engine. Updates are
// handled one at a time in arrival order, so mutations never overlap.
type Bot struct {
	api             *tgbotapi.BotAPI
	cfg             *config.Config
	clk             *clock.Adjustable
	engine          *engine.Engine
	memberService   *service.MemberService
	reminderService *service.ReminderService
	calendarService *service.CalendarService
}

func New(cfg *config.Config, clk *clock.Adjustable, eng *engine.Engine, memberSvc *service.MemberService, reminderSvc *service.ReminderService, calendarSvc *service.CalendarService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("Authorized as @%s", api.Self.UserName)

	bot := &Bot{
		api:             api,
		cfg:             cfg,
		clk:             clk,
		engine:          eng,
		memberService:   memberSvc,
		reminderService: reminderSvc,
		calendarService: calendarSvc,
	}

	bot.setCommands()
	return bot, nil
}

func (b *Bot) setCommands() {
	commands := []tgbotapi.BotCommand{
		{Command: "today", Description: "📅 Reminders due today"},
		{Command: "list", Description: "📋 All reminders"},
		{Command: "add", Description: "➕ Add a reminder"},
		{Command: "members", Description: "👥 Family members"},
		{Command: "clock", Description: "🕐 Show or override the clock"},
		{Command: "help", Description: "❓ Command reference"},
	}

	cfg := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(cfg); err != nil {
		log.Printf("Failed to set commands: %v", err)
	}
}

func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			// Sequential on purpose: one mutation runs to completion
			// before the next update is looked at.
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	msg.ReplyMarkup = keyboard
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) editMessage(chatID int64, msgID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = "HTML"
	edit.ReplyMarkup = keyboard
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error editing message: %v", err)
	}
}
