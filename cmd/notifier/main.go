package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/vedohany200-source/attendance-system/internal/attendance"
	"github.com/vedohany200-source/attendance-system/internal/config"
	"github.com/vedohany200-source/attendance-system/internal/registry"
	"github.com/vedohany200-source/attendance-system/internal/report"
	"github.com/vedohany200-source/attendance-system/internal/rtstore"
	"github.com/vedohany200-source/attendance-system/internal/store"
)

// Notifier watches the attendance store and mails the daily presence
// summary to the pharmacy owner at the configured hour.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	reg := registry.Default()
	if cfg.DoctorsFile != "" {
		loaded, err := registry.LoadFile(cfg.DoctorsFile)
		if err != nil {
			log.Fatalf("roster load failed: %v", err)
		}
		reg = loaded
	}

	if cfg.StoreBackend != "redis" {
		log.Println("WARNING: notifier needs STORE_BACKEND=redis to see the api's data")
	}
	redisClient := store.NewRedis(cfg.RedisAddr)
	rt := rtstore.NewRedis(redisClient.Client)
	defer rt.Close()

	var dialer *gomail.Dialer
	if cfg.MailHost != "" && len(cfg.MailTo) > 0 {
		dialer = gomail.NewDialer(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass)
		log.Printf("mail configured: %s -> %v", cfg.MailHost, cfg.MailTo)
	} else {
		log.Println("mail not configured (MAIL_HOST / MAIL_TO not set), summaries will be logged only")
	}

	// Activity log: every committed attendance mutation.
	cancelSub, err := rt.Subscribe("attendance", func(path string) {
		log.Printf("store change: %s", path)
	})
	if err != nil {
		log.Fatalf("subscribe failed: %v", err)
	}
	defer cancelSub()

	loc := cfg.Location()
	log.Printf("notifier started, daily summary at %02d:00 %s", cfg.ReportHour, cfg.Timezone)

	for {
		next := nextReportTime(time.Now().In(loc), cfg.ReportHour)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-timer.C:
			if err := sendSummary(ctx, rt, reg, cfg, dialer, loc); err != nil {
				log.Printf("summary failed: %v", err)
			}
		case <-ctx.Done():
			timer.Stop()
			log.Println("notifier stopped")
			return
		}
	}
}

// nextReportTime returns today's report hour, or tomorrow's if already past.
func nextReportTime(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func sendSummary(ctx context.Context, rt rtstore.Store, reg *registry.Registry, cfg config.App, dialer *gomail.Dialer, loc *time.Location) error {
	snapshot, err := rt.Snapshot(ctx, "attendance")
	if err != nil {
		return err
	}
	view := attendance.BuildStatusView(reg, snapshot, time.Now().In(loc))
	body := report.Summary(view)

	if dialer == nil {
		log.Printf("daily summary:\n%s", body)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.MailUser)
	m.SetHeader("To", cfg.MailTo...)
	m.SetHeader("Subject", "تقرير الحضور اليومي")
	m.SetBody("text/plain", body)
	if err := dialer.DialAndSend(m); err != nil {
		return err
	}
	log.Printf("daily summary mailed to %v (present=%d absent=%d)", cfg.MailTo, view.PresentCount, view.AbsentCount)
	return nil
}
