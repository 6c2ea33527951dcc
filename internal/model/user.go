package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Roles          []Role    `json:"roles"`
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty"` // указатель - может быть nil, если Telegram не привязан
	CreatedAt      time.Time `json:"created_at"`
}
