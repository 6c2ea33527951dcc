package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"go.uber.org/zap"
)

type reminderSource interface {
	GetConfirmedByDate(ctx context.Context, date time.Time) ([]*model.Booking, error)
}

type reminderSink interface {
	SessionReminder(ctx context.Context, booking *model.Booking)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	bookings reminderSource
	notifier reminderSink
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(bookings reminderSource, notifier reminderSink, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		bookings: bookings,
		notifier: notifier,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runReminderTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runReminderTask раз в сутки рассылает напоминания о завтрашних занятиях
func (s *Scheduler) runReminderTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.sendReminders(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sendReminders(ctx)
		case <-s.stopChan:
			s.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder task cancelled")
			return
		}
	}
}

// sendReminders находит подтверждённые занятия на завтра и уведомляет учеников
func (s *Scheduler) sendReminders(ctx context.Context) {
	now := time.Now().UTC()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	bookings, err := s.bookings.GetConfirmedByDate(ctx, tomorrow)
	if err != nil {
		s.logger.Error("Failed to load bookings for reminders", zap.Error(err))
		return
	}

	for _, booking := range bookings {
		s.notifier.SessionReminder(ctx, booking)
	}

	s.logger.Info("Session reminders sent",
		zap.Time("date", tomorrow),
		zap.Int("count", len(bookings)),
	)
}
