package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/repository"
	"github.com/google/uuid"
)

// Интерфейсы хранилища, которые потребляют сервисы. Реализуются pgx-репозиториями
// из internal/repository; в тестах подменяются in-memory фейками.

type TeacherStore interface {
	Create(ctx context.Context, teacher *model.Teacher) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Teacher, error)
	GetAll(ctx context.Context) ([]*model.Teacher, error)
	Update(ctx context.Context, teacher *model.Teacher) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type StudentStore interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Student, error)
	GetAll(ctx context.Context) ([]*model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SubjectStore interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Subject, error)
	GetAll(ctx context.Context) ([]*model.Subject, error)
	Update(ctx context.Context, subject *model.Subject) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	AddRole(ctx context.Context, id uuid.UUID, role model.Role) error
	SetTelegramChatID(ctx context.Context, id uuid.UUID, chatID int64) error
}

type AvailabilityStore interface {
	Create(ctx context.Context, slot *model.AvailabilitySlot) error
	CreateBatch(ctx context.Context, slots []*model.AvailabilitySlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error)
	GetByTeacherID(ctx context.Context, teacherID uuid.UUID) ([]*model.AvailabilitySlot, error)
	GetByTeacherAndDay(ctx context.Context, teacherID uuid.UUID, dayOfWeek int) ([]*model.AvailabilitySlot, error)
	Update(ctx context.Context, slot *model.AvailabilitySlot) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	CreateBatch(ctx context.Context, bookings []*model.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	GetActiveByTeacherAndDates(ctx context.Context, teacherID uuid.UUID, dates []time.Time) ([]*model.Booking, error)
	GetActiveByStudentAndDates(ctx context.Context, studentID uuid.UUID, dates []time.Time) ([]*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	Confirm(ctx context.Context, id uuid.UUID) error
	SetAttendance(ctx context.Context, id uuid.UUID, attendance model.Attendance, markedBy uuid.UUID, notes *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindPage(ctx context.Context, filter repository.BookingFilter, page, pageSize int) ([]*model.Booking, int, error)
}

type RecurringGroupStore interface {
	Create(ctx context.Context, group *model.RecurringGroup) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.RecurringGroup, error)
	GetAll(ctx context.Context) ([]*model.RecurringGroup, error)
}

// Locker сериализует секции "проверка конфликтов + запись" (base.TxManager)
type Locker interface {
	WithTeacherDayLock(ctx context.Context, teacherID uuid.UUID, date time.Time, fn func(ctx context.Context) error) error
	WithTeacherLock(ctx context.Context, teacherID uuid.UUID, fn func(ctx context.Context) error) error
}

// Notifier — исходящие уведомления о смене состояния бронирования.
// Реализация в internal/notify, по умолчанию noop.
type Notifier interface {
	BookingPending(ctx context.Context, booking *model.Booking)
	BookingConfirmed(ctx context.Context, booking *model.Booking)
	BookingCancelled(ctx context.Context, booking *model.Booking)
}
