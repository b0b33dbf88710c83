package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyPaw/internal/logger"
	"studyPaw/internal/models/assignment"
	"studyPaw/internal/models/course"
	"studyPaw/internal/models/user"
	rep "studyPaw/internal/repository"
	"studyPaw/internal/todo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProgressService struct {
	tasks       TaskRepository
	users       UserRepository
	assignments AssignmentRepository
	courses     CourseRepository
}

func NewProgressService(tasks TaskRepository, users UserRepository, assignments AssignmentRepository, courses CourseRepository) ProgressService {
	return ProgressService{
		tasks:       tasks,
		users:       users,
		assignments: assignments,
		courses:     courses,
	}
}

// Dashboard — сводка для главного экрана: очки, уровень и счётчики вкладок
type Dashboard struct {
	User          *user.User         `json:"user"`
	Level         user.LevelProgress `json:"level"`
	TodayCount    int                `json:"today_count"`
	UpcomingCount int                `json:"upcoming_count"`
	OverdueCount  int                `json:"overdue_count"`
	CompletedCount int               `json:"completed_count"`
	TotalCount    int                `json:"total_count"`
}

func (s *ProgressService) AssignmentProgress(ctx context.Context, assignmentID uuid.UUID) (*assignment.Progress, error) {
	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задание не найдено", zap.String("target_id", assignmentID.String()))
			return nil, NewNotFound("задание", assignmentID.String())
		}
		return nil, fmt.Errorf("получение задания: %w", err)
	}

	tasks, err := s.tasks.FetchByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("получение задач задания: %w", err)
	}

	completed := 0
	for _, t := range tasks {
		if t.IsCompleted {
			completed++
		}
	}

	progress := assignment.ComputeProgress(*a, len(tasks), completed)
	return &progress, nil
}

func (s *ProgressService) CourseProgress(ctx context.Context, courseID string) (*course.Progress, error) {
	c, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Курс не найден", zap.String("target_id", courseID))
			return nil, NewNotFound("курс", courseID)
		}
		return nil, fmt.Errorf("получение курса: %w", err)
	}

	assignments, err := s.assignments.FetchByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("получение заданий курса: %w", err)
	}

	progress := &course.Progress{Course: *c}
	progress.AssignmentCount = len(assignments)

	for _, a := range assignments {
		if a.IsComplete {
			progress.CompletedAssignmentCount++
		}
		tasks, err := s.tasks.FetchByAssignment(ctx, a.AssignmentID)
		if err != nil {
			return nil, fmt.Errorf("получение задач задания: %w", err)
		}
		progress.TaskCount += len(tasks)
		for _, t := range tasks {
			if t.IsCompleted {
				progress.CompletedTaskCount++
			}
		}
	}

	if progress.TaskCount > 0 {
		progress.OverallPercent = int(float64(progress.CompletedTaskCount)/float64(progress.TaskCount)*100 + 0.5)
	} else if progress.AssignmentCount > 0 {
		progress.OverallPercent = int(float64(progress.CompletedAssignmentCount)/float64(progress.AssignmentCount)*100 + 0.5)
	}

	return progress, nil
}

func (s *ProgressService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("пользователь", userID)
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	falseVal, trueVal := false, true
	incomplete, err := s.tasks.FetchByUser(ctx, userID, rep.TaskFilter{IsCompleted: &falseVal})
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	completed, err := s.tasks.FetchByUser(ctx, userID, rep.TaskFilter{IsCompleted: &trueVal})
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	now := time.Now()
	none := todo.Extra{}
	return &Dashboard{
		User:           u,
		Level:          user.ComputeLevelProgress(u.TotalPoints, u.CurrentLevel),
		TodayCount:     todo.Count(todo.FilterToday, incomplete, completed, none, now),
		UpcomingCount:  todo.Count(todo.FilterUpcoming, incomplete, completed, none, now),
		OverdueCount:   todo.Count(todo.FilterOverdue, incomplete, completed, none, now),
		CompletedCount: todo.Count(todo.FilterCompleted, incomplete, completed, none, now),
		TotalCount:     todo.Count(todo.FilterAll, incomplete, completed, none, now),
	}, nil
}
