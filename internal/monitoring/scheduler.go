package monitoring

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/solervi/homehaven-be/internal/services"
)

// Scheduler runs the automatic database backup on a cron schedule.
type Scheduler struct {
	backupSvc services.BackupServiceProvider
	eventSvc  services.EventServiceProvider
	schedule  cron.Schedule
	ticker    *time.Ticker
	done      chan bool
}

// NewScheduler creates a scheduler for the given cron expression. An empty
// expression disables scheduled backups.
func NewScheduler(backupSvc services.BackupServiceProvider, eventSvc services.EventServiceProvider, cronExpression string) (*Scheduler, error) {
	s := &Scheduler{
		backupSvc: backupSvc,
		eventSvc:  eventSvc,
		done:      make(chan bool),
	}
	if cronExpression == "" {
		return s, nil
	}

	schedule, err := cron.ParseStandard(cronExpression)
	if err != nil {
		return nil, err
	}
	s.schedule = schedule
	return s, nil
}

// Run starts the scheduler's ticking loop.
func (s *Scheduler) Run() {
	if s.schedule == nil {
		log.Info().Msg("Scheduled backups disabled")
		return
	}

	log.Info().Msg("Starting background backup scheduler...")
	nextRun := s.schedule.Next(time.Now())

	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping background backup scheduler.")
			return
		case now := <-s.ticker.C:
			if now.After(nextRun) {
				go s.executeBackup()
				nextRun = s.schedule.Next(now)
			}
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	if s.schedule == nil {
		return
	}
	s.done <- true
}

func (s *Scheduler) executeBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	backup, err := s.backupSvc.CreateBackup(ctx, "Scheduled Backup")
	if err != nil {
		log.Error().Err(err).Msg("Scheduled backup failed")
		s.eventSvc.CreateEvent("backup.fail", "error", "Scheduled backup failed: "+err.Error(), nil)
		return
	}
	s.eventSvc.CreateEvent("backup.success", "info", "Scheduled backup "+backup.ID+" completed", nil)
}
