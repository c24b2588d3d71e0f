package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/jkarvon/muistutin/config"
	"github.com/jkarvon/muistutin/internal/engine"
	"github.com/jkarvon/muistutin/internal/service"
)

// CalendarRefresher re-derives the exported calendar from current state,
// including the CalDAV publish when one is configured.
type CalendarRefresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler runs the advisory background jobs: a periodic calendar
// re-export and a midnight day rollover. Jobs only read state and refresh
// derived outputs; nothing here mutates the collections or sends messages.
type Scheduler struct {
	cron      *cron.Cron
	cfg       *config.Config
	engine    *engine.Engine
	reminders *service.ReminderService
	refresher CalendarRefresher
}

func New(cfg *config.Config, eng *engine.Engine, reminders *service.ReminderService, refresher CalendarRefresher) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(cfg.Timezone)),
		cfg:       cfg,
		engine:    eng,
		reminders: reminders,
		refresher: refresher,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc("*/15 * * * *", s.refreshCalendar); err != nil {
		return fmt.Errorf("add calendar refresh: %w", err)
	}

	if _, err := s.cron.AddFunc("0 0 * * *", s.dayRollover); err != nil {
		return fmt.Errorf("add day rollover: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s)", s.cfg.Timezone)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) refreshCalendar() {
	if s.refresher == nil {
		return
	}
	if err := s.refresher.Refresh(context.Background()); err != nil {
		log.Printf("Error refreshing calendar: %v", err)
	}
}

// dayRollover logs the new day's due list when the wall clock crosses
// midnight. With an operator clock override active the engine's day does
// not change at wall midnight, so the summary reflects the overridden day.
func (s *Scheduler) dayRollover() {
	due := s.reminders.DueToday()
	log.Printf("Day rollover: %s, %d reminder(s) due",
		s.engine.Now().Format("Mon 02.01.2006"), len(due))
	s.refreshCalendar()
}
