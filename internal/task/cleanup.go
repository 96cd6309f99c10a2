package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vietlabs/base-backend/internal/repository"
)

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	cron             *cron.Cron
	notificationRepo repository.NotificationRepository
	retention        time.Duration
}

func NewScheduler(notificationRepo repository.NotificationRepository, retention time.Duration) *Scheduler {
	return &Scheduler{
		cron:             cron.New(),
		notificationRepo: notificationRepo,
		retention:        retention,
	}
}

// Start registers the jobs and launches the scheduler in its own goroutine.
func (s *Scheduler) Start() error {
	// Purge read notifications older than the retention window, nightly.
	if _, err := s.cron.AddFunc("0 2 * * *", s.purgeReadNotifications); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) purgeReadNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)
	deleted, err := s.notificationRepo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		log.Printf("task: purging read notifications: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("task: purged %d read notifications older than %s", deleted, s.retention)
	}
}
