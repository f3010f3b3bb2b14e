package scheduler

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/learnengine/internal/engine"
)

// Default quiet-hours window for review reminders
const (
	DefaultReminderStartHour = 8
	DefaultReminderEndHour   = 22
)

// Notifier receives due-review reminders for a learner
type Notifier interface {
	SendReviewReminder(learnerID string, dueCount int) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	registry  *engine.Registry
	notifier  Notifier
	log       *zap.Logger
}

// New creates a new scheduler instance
func New(registry *engine.Registry, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		registry:  registry,
		notifier:  notifier,
		log:       logger,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly sweep for learners with overdue reviews.
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)

	// Keep the peer-similarity index fresh as mastery vectors move.
	s.scheduler.Every(15).Minutes().Do(s.registry.RebuildIndex)

	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders notifies every active learner with due reviews,
// respecting the configured quiet hours
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().Hour()

	startHour := envHour("REMINDER_START_HOUR", DefaultReminderStartHour)
	endHour := envHour("REMINDER_END_HOUR", DefaultReminderEndHour)

	if currentHour < startHour || currentHour > endHour {
		s.log.Debug("outside reminder hours, skipping sweep",
			zap.Int("current_hour", currentHour),
			zap.Int("start_hour", startHour),
			zap.Int("end_hour", endHour))
		return
	}

	for _, learnerID := range s.registry.LearnerIDs() {
		if err := s.RunManualCheck(learnerID); err != nil {
			s.log.Error("failed to send review reminder",
				zap.String("learner_id", learnerID),
				zap.Error(err))
		}
	}
}

// RunManualCheck sends a reminder to one learner if they have due reviews
func (s *Scheduler) RunManualCheck(learnerID string) error {
	e, err := s.registry.Engine(context.Background(), learnerID)
	if err != nil {
		return err
	}
	due := e.GetDueReviews()
	if len(due) == 0 || s.notifier == nil {
		return nil
	}
	return s.notifier.SendReviewReminder(learnerID, len(due))
}

func envHour(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
