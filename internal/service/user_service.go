package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutoring_api/internal/auth"
	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type UserService struct {
	userRepo  UserStore
	jwtSecret string
	logger    *zap.Logger
}

func NewUserService(userRepo UserStore, jwtSecret string, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register создаёт пользователя с ролью STUDENT и хэшированным паролем
func (s *UserService) Register(ctx context.Context, email, password string) (*model.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []model.Role{model.RoleStudent},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", email),
	)

	return user, nil
}

// Login проверяет пароль и выдаёт подписанный JWT
func (s *UserService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("get user by email: %w", err)
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, string(role))
	}

	token, err := auth.SignHS256(auth.Claims{
		Sub:   user.ID.String(),
		Roles: roles,
		Iat:   now.Unix(),
		Exp:   now.Add(tokenTTL).Unix(),
	}, s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))

	return token, user, nil
}

// Get получает пользователя по ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NewNotFound("user")
	}
	return user, nil
}

// GrantRole добавляет пользователю роль
func (s *UserService) GrantRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return NewNotFound("user")
	}

	if err := s.userRepo.AddRole(ctx, id, role); err != nil {
		return err
	}

	s.logger.Info("Role granted",
		zap.String("user_id", id.String()),
		zap.String("role", string(role)),
	)

	return nil
}

// LinkTelegram привязывает Telegram-чат для уведомлений
func (s *UserService) LinkTelegram(ctx context.Context, id uuid.UUID, chatID int64) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return NewNotFound("user")
	}

	if err := s.userRepo.SetTelegramChatID(ctx, id, chatID); err != nil {
		return err
	}

	s.logger.Info("Telegram chat linked",
		zap.String("user_id", id.String()),
		zap.Int64("chat_id", chatID),
	)

	return nil
}
