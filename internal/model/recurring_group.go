package model

import (
	"time"

	"github.com/google/uuid"
)

// RecurringGroup — шаблон "тот же день недели каждую неделю в пределах месяца",
// из которого порождается пакет конкретных бронирований.
// Удаление группы не каскадирует на её бронирования.
type RecurringGroup struct {
	ID        uuid.UUID  `json:"id"`
	TeacherID uuid.UUID  `json:"teacher_id"`
	StudentID uuid.UUID  `json:"student_id"`
	SubjectID *uuid.UUID `json:"subject_id,omitempty"`
	DayOfWeek int        `json:"day_of_week"` // 0 = Sunday, 6 = Saturday
	StartTime string     `json:"start_time"`  // "HH:MM"
	EndTime   string     `json:"end_time"`    // "HH:MM"
	Month     int        `json:"month"`       // 1-12
	Year      int        `json:"year"`
	CreatedAt time.Time  `json:"created_at"`
}
