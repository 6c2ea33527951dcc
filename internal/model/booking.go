package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"   // Ожидает подтверждения администратором
	BookingStatusConfirmed BookingStatus = "CONFIRMED" // Подтверждено
	BookingStatusCancelled BookingStatus = "CANCELLED" // Отменено, не участвует в проверках конфликтов
)

type Attendance string

const (
	AttendancePresent Attendance = "PRESENT"
	AttendanceAbsent  Attendance = "ABSENT"
)

type Booking struct {
	ID               uuid.UUID     `json:"id"`
	TeacherID        uuid.UUID     `json:"teacher_id"`
	StudentID        uuid.UUID     `json:"student_id"`
	SubjectID        *uuid.UUID    `json:"subject_id,omitempty"`
	Date             time.Time     `json:"date"`       // дата занятия, время внутри дня не используется
	StartTime        string        `json:"start_time"` // "HH:MM"
	EndTime          string        `json:"end_time"`   // "HH:MM"
	Status           BookingStatus `json:"status"`
	Confirmed        bool          `json:"confirmed"` // всегда обновляется вместе со Status
	Attendance       *Attendance   `json:"attendance,omitempty"`
	AttendanceAt     *time.Time    `json:"attendance_at,omitempty"`
	AttendanceBy     *uuid.UUID    `json:"attendance_by,omitempty"`
	Notes            *string       `json:"notes,omitempty"`
	RecurringGroupID *uuid.UUID    `json:"recurring_group_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Teacher *Teacher `json:"teacher,omitempty"`
	Student *Student `json:"student,omitempty"`
}
