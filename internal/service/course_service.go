package service

import (
	"context"
	"errors"
	"fmt"

	"studyPaw/internal/logger"
	"studyPaw/internal/models/course"
	rep "studyPaw/internal/repository"

	"go.uber.org/zap"
)

type CourseService struct {
	courses CourseRepository
	users   UserRepository
}

func NewCourseService(courses CourseRepository, users UserRepository) CourseService {
	return CourseService{
		courses: courses,
		users:   users,
	}
}

func (s *CourseService) CreateCourse(ctx context.Context, c *course.Course) (*course.Course, error) {
	if c.CourseID == "" {
		return nil, NewValidationError("course_id", "не может быть пустым")
	}
	if c.CourseName == "" {
		return nil, NewValidationError("course_name", "не может быть пустым")
	}

	if c.UserID != "" {
		if _, err := s.users.GetByID(ctx, c.UserID); err != nil {
			if errors.Is(err, rep.ErrNotFound) {
				return nil, NewNotFound("пользователь", c.UserID)
			}
			return nil, fmt.Errorf("получение пользователя: %w", err)
		}
	}

	if err := s.courses.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("создание курса: %w", err)
	}
	return c, nil
}

func (s *CourseService) GetCourseByID(ctx context.Context, courseID string) (*course.Course, error) {
	c, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Курс не найден", zap.String("target_id", courseID))
			return nil, NewNotFound("курс", courseID)
		}
		return nil, fmt.Errorf("получение курса: %w", err)
	}
	return c, nil
}

func (s *CourseService) FetchByUser(ctx context.Context, userID string) ([]*course.Course, error) {
	courses, err := s.courses.FetchByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("получение курсов: %w", err)
	}
	return courses, nil
}
