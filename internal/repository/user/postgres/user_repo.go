package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyPaw/internal/logger"
	"studyPaw/internal/models/user"
	repo "studyPaw/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

const userColumns = `user_id, canvas_username, canvas_domain, profile_picture,
		total_points, current_level, last_activity_at`

func (s *Storage) Create(ctx context.Context, u *user.User) error {
	start := time.Now()

	query := `INSERT INTO users
				(user_id, canvas_username, canvas_domain, profile_picture, total_points, current_level)
				VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
		u.UserID,
		nullable(u.CanvasUsername),
		nullable(u.CanvasDomain),
		nullable(u.ProfilePicture),
		u.TotalPoints,
		u.CurrentLevel,
	)

	if err != nil {
		logger.Error("Repository: Не удалось добавить пользователя", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление пользователя: %w", err)
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, userID string) (*user.User, error) {
	start := time.Now()

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	u := &user.User{}
	var canvasUsername, canvasDomain, profilePicture *string

	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&u.UserID,
		&canvasUsername,
		&canvasDomain,
		&profilePicture,
		&u.TotalPoints,
		&u.CurrentLevel,
		&u.LastActivityAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	u.CanvasUsername = deref(canvasUsername)
	u.CanvasDomain = deref(canvasDomain)
	u.ProfilePicture = deref(profilePicture)

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return u, nil
}

func (s *Storage) FetchAll(ctx context.Context) ([]*user.User, error) {
	start := time.Now()

	query := `SELECT ` + userColumns + ` FROM users ORDER BY user_id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить пользователей", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение пользователей: %w", err)
	}
	defer rows.Close()

	users := []*user.User{}
	for rows.Next() {
		u := &user.User{}
		var canvasUsername, canvasDomain, profilePicture *string

		err := rows.Scan(
			&u.UserID,
			&canvasUsername,
			&canvasDomain,
			&profilePicture,
			&u.TotalPoints,
			&u.CurrentLevel,
			&u.LastActivityAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования пользователя", zap.Error(err))
			continue
		}

		u.CanvasUsername = deref(canvasUsername)
		u.CanvasDomain = deref(canvasDomain)
		u.ProfilePicture = deref(profilePicture)
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return users, nil
}

// UpdatePoints инкрементит total_points атомарно, delta может быть отрицательной
func (s *Storage) UpdatePoints(ctx context.Context, userID string, delta int) error {
	start := time.Now()

	query := `UPDATE users
			SET total_points = total_points + $1,
				last_activity_at = NOW()
			WHERE user_id = $2`

	tag, err := s.pool.Exec(ctx, query, delta, userID)
	if err != nil {
		logger.Error("Repository: Не удалось обновить очки", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление очков: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) UpdateLevel(ctx context.Context, userID string, level int) error {
	query := `UPDATE users SET current_level = $1 WHERE user_id = $2`

	tag, err := s.pool.Exec(ctx, query, level, userID)
	if err != nil {
		logger.Error("Repository: Не удалось обновить уровень", err)
		return fmt.Errorf("обновление уровня: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE user_id = $1`

	tag, err := s.pool.Exec(ctx, query, userID)
	if err != nil {
		logger.Error("Repository: Удаление пользователя", err)
		return fmt.Errorf("удаление пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
