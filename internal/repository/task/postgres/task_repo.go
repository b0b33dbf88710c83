package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyPaw/internal/logger"
	"studyPaw/internal/models/task"
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

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

const taskColumns = `task_id, user_id, assignment_id, course_id, description, type,
		scheduled_start_at, scheduled_end_at, is_completed, completion_date_at, reward_points`

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(task_id, user_id, assignment_id, course_id, description, type,
				scheduled_start_at, scheduled_end_at, is_completed, completion_date_at, reward_points)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULL, $10)`

	_, err := s.pool.Exec(ctx, query,
		taskToCreate.TaskID,
		taskToCreate.UserID,
		taskToCreate.AssignmentID,
		taskToCreate.CourseID,
		taskToCreate.Description,
		taskToCreate.Type,
		taskToCreate.ScheduledStartAt,
		taskToCreate.ScheduledEndAt,
		taskToCreate.IsCompleted,
		taskToCreate.RewardPoints,
	)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET description = $1,
				type = $2,
				scheduled_start_at = $3,
				scheduled_end_at = $4,
				reward_points = $5,
				course_id = $6,
				assignment_id = $7
			WHERE task_id = $8`

	tag, err := s.pool.Exec(ctx, query,
		taskToUpdate.Description,
		taskToUpdate.Type,
		taskToUpdate.ScheduledStartAt,
		taskToUpdate.ScheduledEndAt,
		taskToUpdate.RewardPoints,
		taskToUpdate.CourseID,
		taskToUpdate.AssignmentID,
		taskToUpdate.TaskID,
	)

	if err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// Complete помечает задачу завершённой, обратного перехода нет
func (s *Storage) Complete(ctx context.Context, id uuid.UUID, at time.Time) error {
	start := time.Now()

	query := `UPDATE tasks
			SET is_completed = TRUE,
				completion_date_at = $1
			WHERE task_id = $2 AND is_completed = FALSE`

	tag, err := s.pool.Exec(ctx, query, at, id)
	if err != nil {
		logger.Error("Repository: Не удалось завершить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("завершение задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	query := `DELETE FROM tasks WHERE task_id = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = $1`

	t := &task.Task{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&t.TaskID,
		&t.UserID,
		&t.AssignmentID,
		&t.CourseID,
		&t.Description,
		&t.Type,
		&t.ScheduledStartAt,
		&t.ScheduledEndAt,
		&t.IsCompleted,
		&t.CompletionDateAt,
		&t.RewardPoints,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return t, nil
}

func (s *Storage) FetchByUser(ctx context.Context, userID string, filter repo.TaskFilter) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}

	if filter.IsCompleted != nil {
		args = append(args, *filter.IsCompleted)
		query += fmt.Sprintf(" AND is_completed = $%d", len(args))
	}
	if filter.AssignmentID != nil {
		args = append(args, *filter.AssignmentID)
		query += fmt.Sprintf(" AND assignment_id = $%d", len(args))
	}
	if filter.ScheduledStartAt != nil {
		args = append(args, *filter.ScheduledStartAt)
		query += fmt.Sprintf(" AND scheduled_start_at >= $%d", len(args))
	}
	if filter.ScheduledEndAt != nil {
		args = append(args, *filter.ScheduledEndAt)
		query += fmt.Sprintf(" AND scheduled_end_at <= $%d", len(args))
	}
	query += " ORDER BY scheduled_end_at NULLS LAST"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, nil
}

func (s *Storage) FetchByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE assignment_id = $1`

	rows, err := s.pool.Query(ctx, query, assignmentID)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи задания", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач задания: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (s *Storage) FetchUncompletedByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks
				WHERE assignment_id = $1 AND is_completed = FALSE`

	rows, err := s.pool.Query(ctx, query, assignmentID)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи задания", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач задания: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// FetchUpcomingReminders — задачи с напоминанием (exercise/break), стартующие до deadline
func (s *Storage) FetchUpcomingReminders(ctx context.Context, deadline time.Time, limit int) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks
				WHERE is_completed = FALSE
					AND type IN ('exercise', 'break')
					AND scheduled_start_at IS NOT NULL
					AND scheduled_start_at <= $1
				ORDER BY scheduled_start_at
				LIMIT $2`

	rows, err := s.pool.Query(ctx, query, deadline, limit)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи для напоминаний", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач для напоминаний: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

func scanTasks(rows pgx.Rows) ([]*task.Task, error) {
	tasks := []*task.Task{}

	for rows.Next() {
		t := &task.Task{}

		err := rows.Scan(
			&t.TaskID,
			&t.UserID,
			&t.AssignmentID,
			&t.CourseID,
			&t.Description,
			&t.Type,
			&t.ScheduledStartAt,
			&t.ScheduledEndAt,
			&t.IsCompleted,
			&t.CompletionDateAt,
			&t.RewardPoints,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}

		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return tasks, nil
}
