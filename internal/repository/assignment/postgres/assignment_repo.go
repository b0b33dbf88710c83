package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyPaw/internal/logger"
	"studyPaw/internal/models/assignment"
	repo "studyPaw/internal/repository"

	"github.com/google/uuid"
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

const assignmentColumns = `assignment_id, course_id, title, due_date, completion_points, is_complete`

func (s *Storage) Create(ctx context.Context, a *assignment.Assignment) error {
	query := `INSERT INTO assignments
				(assignment_id, course_id, title, due_date, completion_points, is_complete)
				VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
		a.AssignmentID,
		a.CourseID,
		a.Title,
		a.DueDate,
		a.CompletionPoints,
		a.IsComplete,
	)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задание", err)
		return fmt.Errorf("добавление задания: %w", err)
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	start := time.Now()

	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE assignment_id = $1`

	a := &assignment.Assignment{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&a.AssignmentID,
		&a.CourseID,
		&a.Title,
		&a.DueDate,
		&a.CompletionPoints,
		&a.IsComplete,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задание", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задания: %w", err)
	}

	return a, nil
}

func (s *Storage) Update(ctx context.Context, a *assignment.Assignment) error {
	query := `UPDATE assignments
			SET title = $1,
				due_date = $2,
				completion_points = $3,
				is_complete = $4
			WHERE assignment_id = $5`

	tag, err := s.pool.Exec(ctx, query, a.Title, a.DueDate, a.CompletionPoints, a.IsComplete, a.AssignmentID)
	if err != nil {
		logger.Error("Repository: Не удалось обновить задание", err)
		return fmt.Errorf("обновление задания: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) Complete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE assignments SET is_complete = TRUE WHERE assignment_id = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Не удалось завершить задание", err)
		return fmt.Errorf("завершение задания: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM assignments WHERE assignment_id = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Удаление задания", err)
		return fmt.Errorf("удаление задания: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// FetchByCourse возвращает задания курса, пустой courseID — все задания
func (s *Storage) FetchByCourse(ctx context.Context, courseID string) ([]*assignment.Assignment, error) {
	start := time.Now()

	query := `SELECT ` + assignmentColumns + ` FROM assignments`
	args := []any{}
	if courseID != "" {
		query += ` WHERE course_id = $1`
		args = append(args, courseID)
	}
	query += ` ORDER BY due_date NULLS LAST`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задания", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение заданий: %w", err)
	}
	defer rows.Close()

	assignments := []*assignment.Assignment{}
	for rows.Next() {
		a := &assignment.Assignment{}

		err := rows.Scan(
			&a.AssignmentID,
			&a.CourseID,
			&a.Title,
			&a.DueDate,
			&a.CompletionPoints,
			&a.IsComplete,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задания", zap.Error(err))
			continue
		}

		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return assignments, nil
}
