package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyPaw/internal/logger"
	"studyPaw/internal/models/course"
	"studyPaw/internal/models/task"
	"studyPaw/internal/models/user"
	rep "studyPaw/internal/repository"
	"studyPaw/internal/todo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	tasks       TaskRepository
	users       UserRepository
	assignments AssignmentRepository
	courses     CourseRepository
}

func NewTaskService(tasks TaskRepository, users UserRepository, assignments AssignmentRepository, courses CourseRepository) TaskService {
	return TaskService{
		tasks:       tasks,
		users:       users,
		assignments: assignments,
		courses:     courses,
	}
}

// CombinedPayload — всё, что нужно клиенту для отрисовки списка задач
// одним запросом: обе половины списка плюс справочники.
type CombinedPayload struct {
	Incomplete []*task.Task    `json:"incomplete_tasks"`
	Completed  []*task.Task    `json:"completed_tasks"`
	Courses    []*course.Course `json:"course_options"`
	TaskTypes  []task.TypeInfo `json:"task_type_options"`
}

// CompletionResult — итог завершения задачи. PointsEarned — награда самой
// задачи, бонус за закрытие задания идёт отдельной строкой.
type CompletionResult struct {
	Task                *task.Task `json:"task"`
	PointsEarned        int        `json:"points_earned"`
	AssignmentCompleted bool       `json:"assignment_completed"`
	BonusPoints         int        `json:"bonus_points,omitempty"`
	TotalPoints         int        `json:"total_points"`
	CurrentLevel        int        `json:"current_level"`
}

func (s *TaskService) CreateNewTask(ctx context.Context, userID, description string, taskType task.Type, options ...task.TaskOption) (*task.Task, error) {
	if userID == "" {
		return nil, NewValidationError("user_id", "не может быть пустым")
	}
	if description == "" {
		return nil, NewValidationError("description", "не может быть пустым")
	}
	if taskType == "" {
		taskType = task.TypeOther
	}
	if !taskType.Valid() {
		return nil, NewValidationError("type", fmt.Sprintf("неизвестный тип '%s'", taskType))
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("пользователь", userID)
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	t := &task.Task{
		TaskID:       uuid.New(),
		UserID:       userID,
		Description:  description,
		Type:         taskType,
		RewardPoints: taskType.DefaultPoints(),
	}

	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}

	if t.RewardPoints < 0 || t.RewardPoints > task.MaxRewardPoints {
		return nil, NewValidationError("reward_points",
			fmt.Sprintf("допустимо от 0 до %d", task.MaxRewardPoints))
	}
	if t.ScheduledStartAt != nil && t.ScheduledEndAt != nil && t.ScheduledEndAt.Before(*t.ScheduledStartAt) {
		return nil, NewValidationError("scheduled_end_at", "раньше начала")
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) UpdateTaskByID(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}

	if t.RewardPoints < 0 || t.RewardPoints > task.MaxRewardPoints {
		return nil, NewValidationError("reward_points",
			fmt.Sprintf("допустимо от 0 до %d", task.MaxRewardPoints))
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) DeleteTaskByID(ctx context.Context, id uuid.UUID) error {
	err := s.tasks.Delete(ctx, id)
	if errors.Is(err, rep.ErrNotFound) {
		return NewNotFound("задача", id.String())
	}
	return err
}

// FetchView отдаёт содержимое вкладки: для all, upcoming и overdue задачи
// раскладываются по дням, для today и completed список плоский.
func (s *TaskService) FetchView(ctx context.Context, userID string, filter todo.Filter, extra todo.Extra) (todo.View, error) {
	if !filter.Valid() {
		return todo.View{}, NewValidationError("filter", fmt.Sprintf("неизвестная вкладка '%s'", filter))
	}

	incomplete, completed, err := s.fetchSplit(ctx, userID)
	if err != nil {
		return todo.View{}, err
	}

	return todo.SelectView(filter, incomplete, completed, extra, time.Now()), nil
}

// Counts — количество задач в каждой вкладке для бейджей в UI
func (s *TaskService) Counts(ctx context.Context, userID string) (map[todo.Filter]int, error) {
	incomplete, completed, err := s.fetchSplit(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	counts := make(map[todo.Filter]int)
	for _, f := range []todo.Filter{todo.FilterAll, todo.FilterToday, todo.FilterUpcoming, todo.FilterOverdue, todo.FilterCompleted} {
		counts[f] = todo.Count(f, incomplete, completed, todo.Extra{}, now)
	}
	return counts, nil
}

func (s *TaskService) Combined(ctx context.Context, userID string) (*CombinedPayload, error) {
	incomplete, completed, err := s.fetchSplit(ctx, userID)
	if err != nil {
		return nil, err
	}

	courses, err := s.courses.FetchByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("получение курсов: %w", err)
	}

	return &CombinedPayload{
		Incomplete: incomplete,
		Completed:  completed,
		Courses:    courses,
		TaskTypes:  task.Catalog,
	}, nil
}

// CompleteTask завершает задачу и начисляет очки. Награда самой задачи
// начисляется всегда; если это была последняя незавершённая задача
// задания, задание закрывается и очки за него добавляются сверху.
func (s *TaskService) CompleteTask(ctx context.Context, id uuid.UUID) (*CompletionResult, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	if t.IsCompleted {
		return nil, NewAlreadyCompleted(id.String())
	}

	now := time.Now()
	if err := s.tasks.Complete(ctx, id, now); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("завершение задачи: %w", err)
	}
	t.IsCompleted = true
	t.CompletionDateAt = &now

	earned := t.RewardPoints
	if err := s.users.UpdatePoints(ctx, t.UserID, earned); err != nil {
		return nil, fmt.Errorf("начисление очков: %w", err)
	}

	result := &CompletionResult{
		Task:         t,
		PointsEarned: earned,
	}

	if t.AssignmentID != nil {
		bonus, completed, err := s.closeAssignmentIfDone(ctx, t.UserID, *t.AssignmentID)
		if err != nil {
			// задача уже завершена, ошибку бонуса не превращаем в откат
			logger.Warn("Service: Не удалось закрыть задание", zap.Error(err),
				zap.String("assignment_id", t.AssignmentID.String()))
		} else {
			result.AssignmentCompleted = completed
			result.BonusPoints = bonus
		}
	}

	u, err := s.users.GetByID(ctx, t.UserID)
	if err != nil {
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	if lvl := user.LevelForPoints(u.TotalPoints); lvl != u.CurrentLevel {
		if err := s.users.UpdateLevel(ctx, t.UserID, lvl); err != nil {
			logger.Warn("Service: Не удалось обновить уровень", zap.Error(err))
		} else {
			logger.Info("Service: Новый уровень",
				zap.String("user_id", t.UserID), zap.Int("level", lvl))
			u.CurrentLevel = lvl
		}
	}

	result.TotalPoints = u.TotalPoints
	result.CurrentLevel = u.CurrentLevel
	return result, nil
}

// closeAssignmentIfDone закрывает задание, если незавершённых задач по нему
// не осталось, и возвращает начисленный бонус.
func (s *TaskService) closeAssignmentIfDone(ctx context.Context, userID string, assignmentID uuid.UUID) (int, bool, error) {
	remaining, err := s.tasks.FetchUncompletedByAssignment(ctx, assignmentID)
	if err != nil {
		return 0, false, fmt.Errorf("получение задач задания: %w", err)
	}
	if len(remaining) > 0 {
		return 0, false, nil
	}

	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return 0, false, fmt.Errorf("получение задания: %w", err)
	}
	if a.IsComplete {
		return 0, false, nil
	}

	if err := s.assignments.Complete(ctx, assignmentID); err != nil {
		return 0, false, fmt.Errorf("завершение задания: %w", err)
	}
	if a.CompletionPoints > 0 {
		if err := s.users.UpdatePoints(ctx, userID, a.CompletionPoints); err != nil {
			return 0, true, fmt.Errorf("начисление бонуса: %w", err)
		}
	}
	return a.CompletionPoints, true, nil
}

func (s *TaskService) fetchSplit(ctx context.Context, userID string) (incomplete, completed []*task.Task, err error) {
	falseVal, trueVal := false, true

	incomplete, err = s.tasks.FetchByUser(ctx, userID, rep.TaskFilter{IsCompleted: &falseVal})
	if err != nil {
		return nil, nil, fmt.Errorf("получение задач: %w", err)
	}
	completed, err = s.tasks.FetchByUser(ctx, userID, rep.TaskFilter{IsCompleted: &trueVal})
	if err != nil {
		return nil, nil, fmt.Errorf("получение задач: %w", err)
	}
	return incomplete, completed, nil
}
