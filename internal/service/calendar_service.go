package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"github.com/jkarvon/muistutin/internal/clients/caldav"
	"github.com/jkarvon/muistutin/internal/domain"
)

// CalendarService renders the reminder list as an iCalendar feed: one
// VEVENT per reminder, repeat rules mapped to RRULEs. The feed is written
// to a local .ics file after mutations and, when CalDAV credentials are
// configured, pushed object-by-object to the server.
type CalendarService struct {
	reminders    *ReminderService
	caldavClient *caldav.Client
	exportPath   string
}

func NewCalendarService(reminders *ReminderService, client *caldav.Client, exportPath string) *CalendarService {
	return &CalendarService{
		reminders:    reminders,
		caldavClient: client,
		exportPath:   exportPath,
	}
}

// IsPublishConfigured returns true when a CalDAV target is configured.
func (s *CalendarService) IsPublishConfigured() bool {
	return s.caldavClient != nil && s.caldavClient.IsConfigured()
}

// Refresh re-derives everything the reminder list feeds: the .ics export
// file always, and the CalDAV objects when a target is configured.
func (s *CalendarService) Refresh(ctx context.Context) error {
	if err := s.Export(); err != nil {
		return err
	}
	if !s.IsPublishConfigured() {
		return nil
	}
	return s.Publish(ctx)
}

// PruneTail deletes the published object left behind when the reminder
// list shrinks by one: object UIDs follow list positions, so after a
// removal the old highest position is stale. The surviving positions are
// brought up to date by the following Refresh.
func (s *CalendarService) PruneTail(ctx context.Context) error {
	if !s.IsPublishConfigured() {
		return nil
	}
	return s.caldavClient.DeleteObject(ctx, eventUID(len(s.reminders.All())+1))
}

// DiscoverCalendars lists the calendar collections available on the
// configured CalDAV server.
func (s *CalendarService) DiscoverCalendars(ctx context.Context) ([]caldav.Calendar, error) {
	if !s.IsPublishConfigured() {
		return nil, fmt.Errorf("CalDAV not configured")
	}
	return s.caldavClient.DiscoverCalendars(ctx)
}

// Export writes the current reminder list to the .ics export path. The
// file is replaced atomically so readers never see a half-written feed.
func (s *CalendarService) Export() error {
	cal := s.BuildCalendar()

	if err := os.MkdirAll(filepath.Dir(s.exportPath), 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	tmp := s.exportPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := ical.NewEncoder(f).Encode(cal); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode calendar: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmp, s.exportPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace export file: %w", err)
	}
	return nil
}

// Publish pushes every reminder as its own calendar object. PUT replaces,
// so repeated publishes update in place.
func (s *CalendarService) Publish(ctx context.Context) error {
	if !s.IsPublishConfigured() {
		return fmt.Errorf("CalDAV not configured")
	}

	for _, it := range s.reminders.All() {
		event, ok := s.eventFor(it)
		if !ok {
			continue
		}
		cal := ical.NewCalendar()
		cal.Props.SetText(ical.PropVersion, "2.0")
		cal.Props.SetText(ical.PropProductID, "-//muistutin//reminders//EN")
		cal.Children = append(cal.Children, event.Component)

		uid := eventUID(it.Pos)
		if err := s.caldavClient.PutObject(ctx, uid, cal); err != nil {
			return fmt.Errorf("publish reminder #%d: %w", it.Pos, err)
		}
	}
	return nil
}

// BuildCalendar assembles the full feed in memory.
func (s *CalendarService) BuildCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//muistutin//reminders//EN")

	for _, it := range s.reminders.All() {
		if event, ok := s.eventFor(it); ok {
			cal.Children = append(cal.Children, event.Component)
		}
	}
	return cal
}

func (s *CalendarService) eventFor(it Item) (*ical.Event, bool) {
	r := it.Reminder
	eng := s.reminders.Engine()
	now := eng.Now()

	start, ok := r.DeadlineAt(now)
	if !ok {
		return nil, false
	}

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, eventUID(it.Pos))
	event.Props.SetText(ical.PropSummary, r.Title)
	event.Props.SetText(ical.PropDescription,
		fmt.Sprintf("Assigned to: %s\n%s", r.AssignedTo, r.Repeat.Summary()))
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())

	if rr := recurrenceRule(r.Repeat); rr != "" {
		event.Props.SetText(ical.PropRecurrenceRule, rr)
	}
	return event, true
}

var icalWeekdays = []rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// recurrenceRule maps a repeat rule to an RRULE value. The custom rule
// keeps its day-count cadence, matching the due predicate.
func recurrenceRule(r domain.RepeatRule) string {
	var opt rrule.ROption
	switch r.Kind {
	case domain.RepeatEveryday:
		opt = rrule.ROption{Freq: rrule.DAILY}
	case domain.RepeatWeekdays:
		opt = rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR},
		}
	case domain.RepeatWeekends:
		opt = rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: []rrule.Weekday{rrule.SA, rrule.SU},
		}
	case domain.RepeatDaysOfWeek:
		days := make([]rrule.Weekday, 0, len(r.Days))
		for _, d := range r.Days {
			if d >= 0 && d < len(icalWeekdays) {
				days = append(days, icalWeekdays[d])
			}
		}
		opt = rrule.ROption{Freq: rrule.WEEKLY, Byweekday: days}
	case domain.RepeatCustom:
		opt = rrule.ROption{Freq: rrule.DAILY, Interval: r.Interval}
	default:
		return ""
	}
	return opt.RRuleString()
}

func eventUID(pos int) string {
	return fmt.Sprintf("muistutin-%d@muistutin", pos)
}
