package postgres

import (
	"context"
	"errors"
	"fmt"

	"studyPaw/internal/logger"
	"studyPaw/internal/models/course"
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

const courseColumns = `course_id, user_id, course_name, course_code, canvas_course_id, term, color`

func (s *Storage) Create(ctx context.Context, c *course.Course) error {
	query := `INSERT INTO courses
				(course_id, user_id, course_name, course_code, canvas_course_id, term, color)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, query,
		c.CourseID,
		c.UserID,
		c.CourseName,
		nullable(c.CourseCode),
		nullable(c.CanvasCourseID),
		nullable(c.Term),
		nullable(c.Color),
	)

	if err != nil {
		logger.Error("Repository: Не удалось добавить курс", err)
		return fmt.Errorf("добавление курса: %w", err)
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, courseID string) (*course.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE course_id = $1`

	c := &course.Course{}
	var code, canvasID, term, color *string

	err := s.pool.QueryRow(ctx, query, courseID).Scan(
		&c.CourseID,
		&c.UserID,
		&c.CourseName,
		&code,
		&canvasID,
		&term,
		&color,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить курс", err)
		return nil, fmt.Errorf("получение курса: %w", err)
	}

	c.CourseCode = deref(code)
	c.CanvasCourseID = deref(canvasID)
	c.Term = deref(term)
	c.Color = deref(color)
	return c, nil
}

func (s *Storage) FetchByUser(ctx context.Context, userID string) ([]*course.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses`
	args := []any{}
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY course_name`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить курсы", err)
		return nil, fmt.Errorf("получение курсов: %w", err)
	}
	defer rows.Close()

	courses := []*course.Course{}
	for rows.Next() {
		c := &course.Course{}
		var code, canvasID, term, color *string

		err := rows.Scan(
			&c.CourseID,
			&c.UserID,
			&c.CourseName,
			&code,
			&canvasID,
			&term,
			&color,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования курса", zap.Error(err))
			continue
		}

		c.CourseCode = deref(code)
		c.CanvasCourseID = deref(canvasID)
		c.Term = deref(term)
		c.Color = deref(color)
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return courses, nil
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
