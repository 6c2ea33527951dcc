package model

import (
	"time"

	"github.com/google/uuid"
)

type Teacher struct {
	ID          uuid.UUID  `json:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"` // ссылка на учётную запись, может отсутствовать
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	MaxCapacity int        `json:"max_capacity"` // максимум одновременных бронирований на одно время
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
