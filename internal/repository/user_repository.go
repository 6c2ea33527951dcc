package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (email, password_hash, roles, telegram_chat_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.DB(ctx).QueryRow(
		ctx, query,
		user.Email,
		user.PasswordHash,
		rolesToStrings(user.Roles),
		user.TelegramChatID,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, email, password_hash, roles, telegram_chat_id, created_at
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(r.DB(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// GetByEmail получает пользователя по email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, password_hash, roles, telegram_chat_id, created_at
		FROM users
		WHERE email = $1
	`

	user, err := scanUser(r.DB(ctx).QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

// AddRole добавляет роль пользователю, если её ещё нет
func (r *UserRepository) AddRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	query := `
		UPDATE users
		SET roles = array_append(roles, $2)
		WHERE id = $1 AND NOT ($2 = ANY(roles))
	`

	if _, err := r.DB(ctx).Exec(ctx, query, id, string(role)); err != nil {
		return fmt.Errorf("add user role: %w", err)
	}

	return nil
}

// SetTelegramChatID привязывает Telegram-чат к пользователю
func (r *UserRepository) SetTelegramChatID(ctx context.Context, id uuid.UUID, chatID int64) error {
	query := `UPDATE users SET telegram_chat_id = $2 WHERE id = $1`

	result, err := r.DB(ctx).Exec(ctx, query, id, chatID)
	if err != nil {
		return fmt.Errorf("set telegram chat id: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	var roles []string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&roles,
		&user.TelegramChatID,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Roles = make([]model.Role, 0, len(roles))
	for _, role := range roles {
		user.Roles = append(user.Roles, model.Role(role))
	}

	return &user, nil
}

func rolesToStrings(roles []model.Role) []string {
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		out = append(out, string(role))
	}
	return out
}
