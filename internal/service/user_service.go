package service

import (
	"context"
	"errors"
	"fmt"

	"studyPaw/internal/logger"
	"studyPaw/internal/models/user"
	rep "studyPaw/internal/repository"

	"go.uber.org/zap"
)

type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) UserService {
	return UserService{users: users}
}

type UserOption func(*user.User)

func WithCanvasUsername(name string) UserOption {
	return func(u *user.User) {
		if name != "" {
			u.CanvasUsername = name
		}
	}
}

func WithCanvasDomain(domain string) UserOption {
	return func(u *user.User) {
		if domain != "" {
			u.CanvasDomain = domain
		}
	}
}

func WithProfilePicture(url string) UserOption {
	return func(u *user.User) {
		if url != "" {
			u.ProfilePicture = url
		}
	}
}

// CreateUser регистрирует пользователя, повторный вызов с тем же id
// возвращает уже существующего.
func (s *UserService) CreateUser(ctx context.Context, userID string, options ...UserOption) (*user.User, error) {
	if userID == "" {
		return nil, NewValidationError("user_id", "не может быть пустым")
	}

	existing, err := s.users.GetByID(ctx, userID)
	if err == nil {
		logger.Info("Service: Пользователь уже существует", zap.String("user_id", userID))
		return existing, nil
	}
	if !errors.Is(err, rep.ErrNotFound) {
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	u := &user.User{
		UserID:       userID,
		TotalPoints:  0,
		CurrentLevel: 0,
	}
	for _, opt := range options {
		opt(u)
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}
	return u, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Пользователь не найден", zap.String("user_id", userID))
			return nil, NewNotFound("пользователь", userID)
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return u, nil
}

func (s *UserService) FetchUsers(ctx context.Context) ([]*user.User, error) {
	users, err := s.users.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение пользователей: %w", err)
	}
	return users, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	err := s.users.Delete(ctx, userID)
	if errors.Is(err, rep.ErrNotFound) {
		return NewNotFound("пользователь", userID)
	}
	return err
}

// LevelProgress — позиция пользователя внутри текущего уровня для
// прогресс-бара.
func (s *UserService) LevelProgress(ctx context.Context, userID string) (*user.LevelProgress, error) {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress := user.ComputeLevelProgress(u.TotalPoints, u.CurrentLevel)
	return &progress, nil
}
