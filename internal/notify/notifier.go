package notify

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/go-telegram/bot"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type teacherStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error)
}

type studentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
}

type userStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// TelegramNotifier отправляет уведомления о бронированиях в Telegram.
// Получатель есть только у участников, привязавших чат к своему профилю;
// остальных уведомитель молча пропускает. Ошибки доставки логируются,
// но не всплывают: бронирование не должно падать из-за недоступного Telegram.
type TelegramNotifier struct {
	bot      *bot.Bot
	teachers teacherStore
	students studentStore
	users    userStore
	logger   *zap.Logger
}

func NewTelegramNotifier(b *bot.Bot, teachers teacherStore, students studentStore, users userStore, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:      b,
		teachers: teachers,
		students: students,
		users:    users,
		logger:   logger,
	}
}

// BookingPending уведомляет учителя о новой заявке
func (n *TelegramNotifier) BookingPending(ctx context.Context, booking *model.Booking) {
	text := fmt.Sprintf("Новая заявка на занятие: %s %s-%s. Ожидает подтверждения.",
		booking.Date.Format("02.01.2006"), booking.StartTime, booking.EndTime)
	n.sendToTeacher(ctx, booking.TeacherID, text)
}

// BookingConfirmed уведомляет обе стороны о подтверждении
func (n *TelegramNotifier) BookingConfirmed(ctx context.Context, booking *model.Booking) {
	text := fmt.Sprintf("Занятие подтверждено: %s %s-%s.",
		booking.Date.Format("02.01.2006"), booking.StartTime, booking.EndTime)
	n.sendToTeacher(ctx, booking.TeacherID, text)
	n.sendToStudent(ctx, booking.StudentID, text)
}

// BookingCancelled уведомляет обе стороны об отмене
func (n *TelegramNotifier) BookingCancelled(ctx context.Context, booking *model.Booking) {
	text := fmt.Sprintf("Занятие отменено: %s %s-%s.",
		booking.Date.Format("02.01.2006"), booking.StartTime, booking.EndTime)
	n.sendToTeacher(ctx, booking.TeacherID, text)
	n.sendToStudent(ctx, booking.StudentID, text)
}

// SessionReminder напоминает ученику о завтрашнем занятии
func (n *TelegramNotifier) SessionReminder(ctx context.Context, booking *model.Booking) {
	text := fmt.Sprintf("Напоминание: завтра занятие %s %s-%s.",
		booking.Date.Format("02.01.2006"), booking.StartTime, booking.EndTime)
	n.sendToStudent(ctx, booking.StudentID, text)
}

func (n *TelegramNotifier) sendToTeacher(ctx context.Context, teacherID uuid.UUID, text string) {
	teacher, err := n.teachers.GetByID(ctx, teacherID)
	if err != nil || teacher == nil || teacher.UserID == nil {
		return
	}
	n.sendToUser(ctx, *teacher.UserID, text)
}

func (n *TelegramNotifier) sendToStudent(ctx context.Context, studentID uuid.UUID, text string) {
	student, err := n.students.GetByID(ctx, studentID)
	if err != nil || student == nil || student.UserID == nil {
		return
	}
	n.sendToUser(ctx, *student.UserID, text)
}

func (n *TelegramNotifier) sendToUser(ctx context.Context, userID uuid.UUID, text string) {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		n.logger.Warn("Failed to resolve notification recipient",
			zap.String("user_id", userID.String()), zap.Error(err))
		return
	}
	if user == nil || user.TelegramChatID == nil {
		return
	}

	_, err = n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: *user.TelegramChatID,
		Text:   text,
	})
	if err != nil {
		n.logger.Warn("Failed to send telegram notification",
			zap.Int64("chat_id", *user.TelegramChatID), zap.Error(err))
	}
}

// Noop используется когда Telegram-токен не сконфигурирован
type Noop struct{}

func (Noop) BookingPending(context.Context, *model.Booking)   {}
func (Noop) BookingConfirmed(context.Context, *model.Booking) {}
func (Noop) BookingCancelled(context.Context, *model.Booking) {}
func (Noop) SessionReminder(context.Context, *model.Booking)  {}
