package service

import (
	"context"
	"time"

	"studyPaw/internal/models/assignment"
	"studyPaw/internal/models/blindbox"
	"studyPaw/internal/models/course"
	"studyPaw/internal/models/task"
	"studyPaw/internal/models/user"
	repo "studyPaw/internal/repository"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(context.Context, *task.Task) error
	Update(context.Context, *task.Task) error
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	Delete(context.Context, uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID, at time.Time) error
	FetchByUser(ctx context.Context, userID string, filter repo.TaskFilter) ([]*task.Task, error)
	FetchByAssignment(context.Context, uuid.UUID) ([]*task.Task, error)
	FetchUncompletedByAssignment(context.Context, uuid.UUID) ([]*task.Task, error)
	FetchUpcomingReminders(ctx context.Context, deadline time.Time, limit int) ([]*task.Task, error)
}

type UserRepository interface {
	Create(context.Context, *user.User) error
	GetByID(context.Context, string) (*user.User, error)
	FetchAll(context.Context) ([]*user.User, error)
	UpdatePoints(ctx context.Context, userID string, delta int) error
	UpdateLevel(ctx context.Context, userID string, level int) error
	Delete(context.Context, string) error
}

type AssignmentRepository interface {
	Create(context.Context, *assignment.Assignment) error
	GetByID(context.Context, uuid.UUID) (*assignment.Assignment, error)
	Update(context.Context, *assignment.Assignment) error
	Complete(context.Context, uuid.UUID) error
	Delete(context.Context, uuid.UUID) error
	FetchByCourse(ctx context.Context, courseID string) ([]*assignment.Assignment, error)
}

type CourseRepository interface {
	Create(context.Context, *course.Course) error
	GetByID(context.Context, string) (*course.Course, error)
	FetchByUser(ctx context.Context, userID string) ([]*course.Course, error)
}

type BlindBoxRepository interface {
	CreateSeries(context.Context, *blindbox.Series) error
	CreateFigure(context.Context, *blindbox.Figure) error
	GetSeriesByID(context.Context, uuid.UUID) (*blindbox.Series, error)
	FetchSeries(context.Context) ([]*blindbox.Series, error)
	FetchAffordableSeries(ctx context.Context, points int) ([]*blindbox.Series, error)
	FetchFiguresBySeries(context.Context, uuid.UUID) ([]*blindbox.Figure, error)
	CreatePurchase(context.Context, *blindbox.Purchase) error
	FetchUserFigures(ctx context.Context, userID string) ([]*blindbox.Figure, error)
}
