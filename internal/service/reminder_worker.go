package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// ReminderResult is the outcome of one reminder check
type ReminderResult string

const (
	ReminderSuccess ReminderResult = "success"
	ReminderRetry   ReminderResult = "retry"
	ReminderFailure ReminderResult = "failure"
)

const reminderTitle = "Time to Save!"

// Reminder is the notification sent when active goals exist
type Reminder struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	ActiveGoals int    `json:"activeGoals"`
}

// NewReminder builds the reminder for the given number of active goals
func NewReminder(activeGoals int) Reminder {
	return Reminder{
		Title:       reminderTitle,
		Message:     fmt.Sprintf("You have %d active savings goal(s). Add to your savings today!", activeGoals),
		ActiveGoals: activeGoals,
	}
}

// Notifier delivers reminders to the user
type Notifier interface {
	Notify(reminder Reminder) error
}

// LogNotifier writes reminders to the log
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier that logs each reminder
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "reminder_notifier").Logger()}
}

// Notify logs the reminder
func (n *LogNotifier) Notify(reminder Reminder) error {
	n.logger.Info().
		Str("title", reminder.Title).
		Int("active_goals", reminder.ActiveGoals).
		Msg(reminder.Message)
	return nil
}

// PublisherNotifier sends reminders to every change feed subscriber
type PublisherNotifier struct {
	publisher websocket.EventPublisher
}

// NewPublisherNotifier creates a notifier backed by an event publisher
func NewPublisherNotifier(publisher websocket.EventPublisher) *PublisherNotifier {
	return &PublisherNotifier{publisher: publisher}
}

// Notify publishes a reminder.due event to all goals
func (n *PublisherNotifier) Notify(reminder Reminder) error {
	n.publisher.Publish(websocket.AllGoals, websocket.ReminderDue(reminder))
	return nil
}

// MultiNotifier fans a reminder out to several notifiers
type MultiNotifier []Notifier

// Notify calls every notifier and joins their errors
func (m MultiNotifier) Notify(reminder Reminder) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(reminder); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReminderWorker is a background worker that periodically reminds the user to save
type ReminderWorker struct {
	goalRepo     domain.GoalRepository
	notifier     Notifier
	logger       zerolog.Logger
	interval     time.Duration
	initialDelay time.Duration
	retryDelay   time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
	mu           sync.Mutex
	running      bool
}

// ReminderWorkerConfig holds configuration for the reminder worker
type ReminderWorkerConfig struct {
	Interval     time.Duration // Time between checks
	InitialDelay time.Duration // Wait before the first check
	RetryDelay   time.Duration // Wait after a check that should be retried
}

// DefaultReminderWorkerConfig returns sensible defaults
func DefaultReminderWorkerConfig() ReminderWorkerConfig {
	return ReminderWorkerConfig{
		Interval:     24 * time.Hour,
		InitialDelay: 1 * time.Hour,
		RetryDelay:   15 * time.Minute,
	}
}

// NewReminderWorker creates a new reminder worker
func NewReminderWorker(
	goalRepo domain.GoalRepository,
	notifier Notifier,
	logger zerolog.Logger,
	config ReminderWorkerConfig,
) *ReminderWorker {
	defaults := DefaultReminderWorkerConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.InitialDelay < 0 {
		config.InitialDelay = defaults.InitialDelay
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaults.RetryDelay
	}

	return &ReminderWorker{
		goalRepo:     goalRepo,
		notifier:     notifier,
		logger:       logger.With().Str("component", "reminder_worker").Logger(),
		interval:     config.Interval,
		initialDelay: config.InitialDelay,
		retryDelay:   config.RetryDelay,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start begins the background reminder schedule
func (w *ReminderWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().
		Dur("interval", w.interval).
		Dur("initial_delay", w.initialDelay).
		Msg("Starting reminder worker")

	go w.run(ctx)
}

// Stop gracefully stops the reminder worker
func (w *ReminderWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping reminder worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Reminder worker stopped")
}

// run is the main loop for the reminder worker
func (w *ReminderWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.initialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.setStopped()
			return
		case <-w.stopCh:
			w.setStopped()
			return
		case <-timer.C:
			next := w.interval
			if w.CheckAndNotify() == ReminderRetry {
				next = w.retryDelay
			}
			timer.Reset(next)
		}
	}
}

func (w *ReminderWorker) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// CheckAndNotify reads the active goals and sends one reminder if any exist.
// It never modifies goals or entries.
func (w *ReminderWorker) CheckAndNotify() ReminderResult {
	goals, err := w.goalRepo.GetActive()
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to load active goals for reminder")
		return ReminderRetry
	}

	if len(goals) == 0 {
		w.logger.Debug().Msg("No active goals, skipping reminder")
		return ReminderSuccess
	}

	if err := w.notifier.Notify(NewReminder(len(goals))); err != nil {
		w.logger.Error().Err(err).Int("active_goals", len(goals)).Msg("Failed to send reminder")
		return ReminderFailure
	}

	w.logger.Info().Int("active_goals", len(goals)).Msg("Reminder sent")
	return ReminderSuccess
}

// IsRunning returns whether the worker is currently running
func (w *ReminderWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
