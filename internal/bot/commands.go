package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())

	switch cmd {
	case "start":
		b.cmdStart(chatID, msg.From.FirstName)
	case "help":
		b.cmdHelp(chatID)
	case "members":
		b.cmdMembers(chatID)
	case "addmember":
		b.cmdAddMember(chatID, args)
	case "add":
		b.cmdAdd(chatID, args)
	case "edit":
		b.cmdEdit(chatID, args)
	case "remove":
		b.cmdRemove(chatID, args)
	case "done":
		b.cmdDone(chatID, args)
	case "list":
		b.cmdList(chatID)
	case "today":
		b.cmdToday(chatID)
	case "clock":
		b.cmdClock(chatID, args)
	case "demo":
		b.cmdDemo(chatID)
	case "export":
		b.cmdExport(chatID)
	case "calendars":
		b.cmdCalendars(chatID)
	default:
		b.SendMessage(chatID, "Unknown command. /help for the list")
	}
}

func (b *Bot) cmdStart(chatID int64, firstName string) {
	b.SendMessage(chatID, fmt.Sprintf("👋 Hi, %s!\n\nI keep track of the household reminders.\n\n/help — command reference", firstName))
}

func (b *Bot) cmdHelp(chatID int64) {
	text := `<b>Commands:</b>

<b>Reminders</b>
/add Title | Member | repeat | deadline
/edit N | Title | Member | repeat | deadline
/done N — toggle done for today
/remove N — delete
/today — due today
/list — everything

<b>Members</b>
/addmember Name
/members — list members

<b>Other</b>
/clock — show current time
/clock 2024-01-10 08:00 — freeze the clock
/clock clear — back to real time
/demo — load demo data
/export — refresh the calendar file
/calendars — list calendars on the CalDAV server

Repeat is one of: none, everyday, weekdays, weekends,
a day list like <code>mon,wed</code>, or <code>every 2 days</code>.
Deadline is <code>07:30</code>, or <code>2024-01-10 08:30</code> for one-offs.`

	b.SendMessage(chatID, text)
}

func (b *Bot) cmdMembers(chatID int64) {
	members := b.memberService.List()
	if len(members) == 0 {
		b.SendMessage(chatID, "No members yet. /addmember Name")
		return
	}
	var sb strings.Builder
	sb.WriteString("<b>👥 Family members:</b>\n\n")
	for _, m := range members {
		sb.WriteString("• " + m + "\n")
	}
	b.SendMessage(chatID, sb.String())
}

func (b *Bot) cmdAddMember(chatID int64, args string) {
	name, err := b.memberService.Add(args)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}
	b.SendMessage(chatID, fmt.Sprintf("✅ Added member <b>%s</b>", name))
}

func (b *Bot) cmdAdd(chatID int64, args string) {
	if args == "" {
		b.SendMessage(chatID, "Usage: /add Title | Member | repeat | deadline")
		return
	}

	in, err := parseReminderInput(args, b.engine.Now())
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}

	r, err := b.reminderService.Add(in.Title, in.Assignee, in.Repeat, in.Deadline)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}

	b.refreshCalendar()
	b.SendMessage(chatID, fmt.Sprintf("✅ Reminder added\n\n<b>%s</b> — %s\n%s, due %s",
		r.Title, r.AssignedTo, r.Repeat.Summary(), b.engine.FormatDeadline(r)))
}

func (b *Bot) cmdEdit(chatID int64, args string) {
	pos, rest, ok := splitPos(args)
	if !ok {
		b.SendMessage(chatID, "Usage: /edit N | Title | Member | repeat | deadline")
		return
	}

	in, err := parseReminderInput(rest, b.engine.Now())
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}

	r, err := b.reminderService.Edit(pos, in.Title, in.Assignee, in.Repeat, in.Deadline)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}

	b.refreshCalendar()
	b.SendMessage(chatID, fmt.Sprintf("✏️ Reminder #%d updated\n\n<b>%s</b> — %s\n%s",
		pos, r.Title, r.AssignedTo, r.Repeat.Summary()))
}

func (b *Bot) cmdRemove(chatID int64, args string) {
	pos, err := strconv.Atoi(args)
	if err != nil {
		b.SendMessage(chatID, "Usage: /remove N")
		return
	}

	r, err := b.reminderService.Get(pos)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}

	b.SendMessageWithKeyboard(chatID,
		fmt.Sprintf("Delete reminder #%d <b>%s</b>?", pos, r.Title),
		confirmDeleteKeyboard(pos))
}

func (b *Bot) cmdDone(chatID int64, args string) {
	pos, err := strconv.Atoi(args)
	if err != nil {
		b.SendMessage(chatID, "Usage: /done N")
		return
	}

	r, err := b.reminderService.Toggle(pos)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}

	if b.engine.IsDoneToday(r) {
		b.SendMessage(chatID, fmt.Sprintf("✅ <b>%s</b> done for today", r.Title))
	} else {
		b.SendMessage(chatID, fmt.Sprintf("↩️ <b>%s</b> marked not done", r.Title))
	}
}

func (b *Bot) cmdList(chatID int64) {
	text := b.renderList()
	if kb := listKeyboard(b.reminderService.All(), b.engine); kb != nil {
		b.SendMessageWithKeyboard(chatID, text, *kb)
		return
	}
	b.SendMessage(chatID, text)
}

func (b *Bot) cmdToday(chatID int64) {
	text := b.renderToday()
	if kb := todayKeyboard(b.reminderService.DueToday(), b.engine); kb != nil {
		b.SendMessageWithKeyboard(chatID, text, *kb)
		return
	}
	b.SendMessage(chatID, text)
}

func (b *Bot) cmdClock(chatID int64, args string) {
	switch args {
	case "":
		now := b.engine.Now()
		if _, frozen := b.clk.Override(); frozen {
			b.SendMessage(chatID, fmt.Sprintf("🕐 Clock is <b>frozen</b> at %s\n/clock clear to resume", now.Format("Mon 02.01.2006 15:04")))
		} else {
			b.SendMessage(chatID, fmt.Sprintf("🕐 Real time: %s", now.Format("Mon 02.01.2006 15:04")))
		}
	case "clear":
		b.clk.Clear()
		b.SendMessage(chatID, fmt.Sprintf("🕐 Back to real time: %s", b.engine.Now().Format("Mon 02.01.2006 15:04")))
	default:
		t, err := time.ParseInLocation("2006-01-02 15:04", args, b.clk.Location())
		if err != nil {
			b.SendMessage(chatID, "Usage: /clock 2024-01-10 08:00, or /clock clear")
			return
		}
		b.clk.Set(t)
		b.SendMessage(chatID, fmt.Sprintf("🕐 Clock frozen at %s", t.Format("Mon 02.01.2006 15:04")))
	}
}

func (b *Bot) cmdDemo(chatID int64) {
	b.SendMessageWithKeyboard(chatID,
		"🎬 Loading demo data <b>replaces</b> the current members and reminders. Continue?",
		confirmDemoKeyboard())
}

func (b *Bot) cmdExport(chatID int64) {
	if err := b.calendarService.Refresh(context.Background()); err != nil {
		b.SendMessage(chatID, "❌ Export failed: "+err.Error())
		return
	}
	if b.calendarService.IsPublishConfigured() {
		b.SendMessage(chatID, "📆 Calendar file refreshed and published to CalDAV")
		return
	}
	b.SendMessage(chatID, "📆 Calendar file refreshed")
}

func (b *Bot) cmdCalendars(chatID int64) {
	cals, err := b.calendarService.DiscoverCalendars(context.Background())
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}
	if len(cals) == 0 {
		b.SendMessage(chatID, "No calendars found on the server")
		return
	}
	var sb strings.Builder
	sb.WriteString("<b>📆 Calendars on the server:</b>\n\n")
	for _, c := range cals {
		sb.WriteString(fmt.Sprintf("• %s\n<code>%s</code>\n", c.DisplayName, c.Path))
	}
	sb.WriteString("\nSet CALDAV_CALENDAR_PATH to publish into one of these.")
	b.SendMessage(chatID, sb.String())
}

func (b *Bot) renderToday() string {
	now := b.engine.Now()
	header := fmt.Sprintf("<b>📅 Today, %s</b>", now.Format("Mon 02.01.2006 15:04"))
	if _, frozen := b.clk.Override(); frozen {
		header += " ❄️"
	}
	return header + "\n\n" + b.reminderService.FormatList(b.reminderService.DueToday())
}

func (b *Bot) renderList() string {
	return "<b>📋 All reminders</b>\n\n" + b.reminderService.FormatList(b.reminderService.All())
}

// splitPos peels a leading position number off "N | rest".
func splitPos(args string) (int, string, bool) {
	head, rest, _ := strings.Cut(args, "|")
	pos, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, "", false
	}
	return pos, strings.TrimSpace(rest), true
}
