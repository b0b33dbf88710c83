package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyPaw/internal/logger"
	"studyPaw/internal/models/assignment"
	rep "studyPaw/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AssignmentService struct {
	assignments AssignmentRepository
	courses     CourseRepository
}

func NewAssignmentService(assignments AssignmentRepository, courses CourseRepository) AssignmentService {
	return AssignmentService{
		assignments: assignments,
		courses:     courses,
	}
}

func (s *AssignmentService) CreateAssignment(ctx context.Context, courseID, title string, dueDate *time.Time, completionPoints int) (*assignment.Assignment, error) {
	if title == "" {
		return nil, NewValidationError("title", "не может быть пустым")
	}
	if completionPoints < 0 {
		return nil, NewValidationError("completion_points", "не может быть отрицательным")
	}

	if courseID != "" {
		if _, err := s.courses.GetByID(ctx, courseID); err != nil {
			if errors.Is(err, rep.ErrNotFound) {
				return nil, NewNotFound("курс", courseID)
			}
			return nil, fmt.Errorf("получение курса: %w", err)
		}
	}

	a := &assignment.Assignment{
		AssignmentID:     uuid.New(),
		CourseID:         courseID,
		Title:            title,
		DueDate:          dueDate,
		CompletionPoints: completionPoints,
	}

	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("создание задания: %w", err)
	}
	return a, nil
}

func (s *AssignmentService) GetAssignmentByID(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задание не найдено", zap.String("target_id", id.String()))
			return nil, NewNotFound("задание", id.String())
		}
		return nil, fmt.Errorf("получение задания: %w", err)
	}
	return a, nil
}

func (s *AssignmentService) UpdateAssignment(ctx context.Context, id uuid.UUID, title *string, dueDate *time.Time, completionPoints *int) (*assignment.Assignment, error) {
	a, err := s.GetAssignmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		if *title == "" {
			return nil, NewValidationError("title", "не может быть пустым")
		}
		a.Title = *title
	}
	if dueDate != nil {
		a.DueDate = dueDate
	}
	if completionPoints != nil {
		if *completionPoints < 0 {
			return nil, NewValidationError("completion_points", "не может быть отрицательным")
		}
		a.CompletionPoints = *completionPoints
	}

	if err := s.assignments.Update(ctx, a); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("задание", id.String())
		}
		return nil, fmt.Errorf("обновление задания: %w", err)
	}
	return a, nil
}

func (s *AssignmentService) FetchByCourse(ctx context.Context, courseID string) ([]*assignment.Assignment, error) {
	assignments, err := s.assignments.FetchByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("получение заданий: %w", err)
	}
	return assignments, nil
}

func (s *AssignmentService) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	err := s.assignments.Delete(ctx, id)
	if errors.Is(err, rep.ErrNotFound) {
		return NewNotFound("задание", id.String())
	}
	return err
}
