package model

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilitySlot — открытое окно учителя в конкретный день недели.
// Времена хранятся строками "HH:MM", сравнение идёт в минутах от начала суток.
type AvailabilitySlot struct {
	ID        uuid.UUID `json:"id"`
	TeacherID uuid.UUID `json:"teacher_id"`
	DayOfWeek int       `json:"day_of_week"` // 0 = Sunday, 6 = Saturday
	StartTime string    `json:"start_time"`  // "HH:MM"
	EndTime   string    `json:"end_time"`    // "HH:MM"
	CreatedAt time.Time `json:"created_at"`
}
