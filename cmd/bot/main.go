package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jkarvon/muistutin/config"
	"github.com/jkarvon/muistutin/internal/bot"
	caldavclient "github.com/jkarvon/muistutin/internal/clients/caldav"
	"github.com/jkarvon/muistutin/internal/clock"
	"github.com/jkarvon/muistutin/internal/engine"
	"github.com/jkarvon/muistutin/internal/scheduler"
	"github.com/jkarvon/muistutin/internal/service"
	"github.com/jkarvon/muistutin/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}
	defer store.Close()

	clk := clock.NewAdjustable(cfg.Timezone)
	eng := engine.New(clk)

	memberSvc := service.NewMemberService(store)
	reminderSvc := service.NewReminderService(store, memberSvc, eng)

	caldavCli := caldavclient.NewClient(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword)
	caldavCli.SetCalendarPath(cfg.CalDAVCalendar)
	calendarSvc := service.NewCalendarService(reminderSvc, caldavCli, cfg.ICSExportPath)

	tgBot, err := bot.New(cfg, clk, eng, memberSvc, reminderSvc, calendarSvc)
	if err != nil {
		log.Fatalf("Failed to init bot: %v", err)
	}

	sched := scheduler.New(cfg, eng, reminderSvc, calendarSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	go func() {
		if err := tgBot.Start(ctx); err != nil {
			log.Printf("Bot error: %v", err)
		}
	}()

	log.Println("Muistutin started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	cancel()
	sched.Stop()

	log.Println("Muistutin stopped")
}
