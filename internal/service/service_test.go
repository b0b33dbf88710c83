package service_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"studyPaw/internal/logger"
	"studyPaw/internal/models/assignment"
	"studyPaw/internal/models/blindbox"
	"studyPaw/internal/models/course"
	"studyPaw/internal/models/task"
	"studyPaw/internal/models/user"
	rep "studyPaw/internal/repository"
	"studyPaw/internal/service"
	"studyPaw/internal/todo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init(true); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// MockTaskRepository - мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) Complete(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockTaskRepository) FetchByUser(ctx context.Context, userID string, filter rep.TaskFilter) ([]*task.Task, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FetchByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FetchUncompletedByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FetchUpcomingReminders(ctx context.Context, deadline time.Time, limit int) ([]*task.Task, error) {
	args := m.Called(ctx, deadline, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

// MockUserRepository - мок репозитория пользователей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*user.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FetchAll(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePoints(ctx context.Context, userID string, delta int) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLevel(ctx context.Context, userID string, level int) error {
	args := m.Called(ctx, userID, level)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ service.UserRepository = (*MockUserRepository)(nil)

// MockAssignmentRepository - мок репозитория заданий
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, a *assignment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Complete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssignmentRepository) FetchByCourse(ctx context.Context, courseID string) ([]*assignment.Assignment, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Assignment), args.Error(1)
}

var _ service.AssignmentRepository = (*MockAssignmentRepository)(nil)

// MockCourseRepository - мок репозитория курсов
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, c *course.Course) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, courseID string) (*course.Course, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*course.Course), args.Error(1)
}

func (m *MockCourseRepository) FetchByUser(ctx context.Context, userID string) ([]*course.Course, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*course.Course), args.Error(1)
}

var _ service.CourseRepository = (*MockCourseRepository)(nil)

// MockBlindBoxRepository - мок репозитория коробок
type MockBlindBoxRepository struct {
	mock.Mock
}

func (m *MockBlindBoxRepository) CreateSeries(ctx context.Context, sr *blindbox.Series) error {
	args := m.Called(ctx, sr)
	return args.Error(0)
}

func (m *MockBlindBoxRepository) CreateFigure(ctx context.Context, f *blindbox.Figure) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockBlindBoxRepository) GetSeriesByID(ctx context.Context, id uuid.UUID) (*blindbox.Series, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blindbox.Series), args.Error(1)
}

func (m *MockBlindBoxRepository) FetchSeries(ctx context.Context) ([]*blindbox.Series, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*blindbox.Series), args.Error(1)
}

func (m *MockBlindBoxRepository) FetchAffordableSeries(ctx context.Context, points int) ([]*blindbox.Series, error) {
	args := m.Called(ctx, points)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*blindbox.Series), args.Error(1)
}

func (m *MockBlindBoxRepository) FetchFiguresBySeries(ctx context.Context, seriesID uuid.UUID) ([]*blindbox.Figure, error) {
	args := m.Called(ctx, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*blindbox.Figure), args.Error(1)
}

func (m *MockBlindBoxRepository) CreatePurchase(ctx context.Context, p *blindbox.Purchase) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockBlindBoxRepository) FetchUserFigures(ctx context.Context, userID string) ([]*blindbox.Figure, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*blindbox.Figure), args.Error(1)
}

var _ service.BlindBoxRepository = (*MockBlindBoxRepository)(nil)

func newTaskService(tasks *MockTaskRepository, users *MockUserRepository, assignments *MockAssignmentRepository, courses *MockCourseRepository) service.TaskService {
	return service.NewTaskService(tasks, users, assignments, courses)
}

// TestTaskService_CreateNewTask тестирует создание задачи
func TestTaskService_CreateNewTask(t *testing.T) {
	ctx := context.Background()

	t.Run("success - default points by type", func(t *testing.T) {
		tasks := new(MockTaskRepository)
		users := new(MockUserRepository)

		users.On("GetByID", mock.Anything, "user-1").Return(&user.User{UserID: "user-1"}, nil)
		tasks.On("Create", mock.Anything, mock.MatchedBy(func(created *task.Task) bool {
			return created.RewardPoints == 20 && created.Type == task.TypeAssignment
		})).Return(nil)

		svc := newTaskService(tasks, users, new(MockAssignmentRepository), new(MockCourseRepository))
		created, err := svc.CreateNewTask(ctx, "user-1", "lab report", task.TypeAssignment)

		require.NoError(t, err)
		assert.Equal(t, 20, created.RewardPoints)
		tasks.AssertExpectations(t)
	})

	t.Run("empty type falls back to other", func(t *testing.T) {
		tasks := new(MockTaskRepository)
		users := new(MockUserRepository)

		users.On("GetByID", mock.Anything, "user-1").Return(&user.User{UserID: "user-1"}, nil)
		tasks.On("Create", mock.Anything, mock.MatchedBy(func(created *task.Task) bool {
			return created.Type == task.TypeOther && created.RewardPoints == 5
		})).Return(nil)

		svc := newTaskService(tasks, users, new(MockAssignmentRepository), new(MockCourseRepository))
		_, err := svc.CreateNewTask(ctx, "user-1", "misc", "")

		assert.NoError(t, err)
		tasks.AssertExpectations(t)
	})

	t.Run("error - empty description", func(t *testing.T) {
		svc := newTaskService(new(MockTaskRepository), new(MockUserRepository), new(MockAssignmentRepository), new(MockCourseRepository))
		_, err := svc.CreateNewTask(ctx, "user-1", "", task.TypeStudy)

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeValidationError, busErr.Code)
	})

	t.Run("error - unknown type", func(t *testing.T) {
		svc := newTaskService(new(MockTaskRepository), new(MockUserRepository), new(MockAssignmentRepository), new(MockCourseRepository))
		_, err := svc.CreateNewTask(ctx, "user-1", "something", "gardening")

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeValidationError, busErr.Code)
	})

	t.Run("error - user not found", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, "ghost").Return(nil, rep.ErrNotFound)

		svc := newTaskService(new(MockTaskRepository), users, new(MockAssignmentRepository), new(MockCourseRepository))
		_, err := svc.CreateNewTask(ctx, "ghost", "something", task.TypeStudy)

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeNotFound, busErr.Code)
	})
}

// TestTaskService_CompleteTask тестирует завершение задачи и начисление очков
func TestTaskService_CompleteTask(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()

	t.Run("success - task reward only", func(t *testing.T) {
		tasks := new(MockTaskRepository)
		users := new(MockUserRepository)

		tasks.On("GetByID", mock.Anything, taskID).Return(&task.Task{
			TaskID:       taskID,
			UserID:       "user-1",
			Type:         task.TypeStudy,
			RewardPoints: 15,
		}, nil)
		tasks.On("Complete", mock.Anything, taskID, mock.Anything).Return(nil)
		users.On("UpdatePoints", mock.Anything, "user-1", 15).Return(nil)
		users.On("GetByID", mock.Anything, "user-1").Return(&user.User{
			UserID:      "user-1",
			TotalPoints: 45,
		}, nil)

		svc := newTaskService(tasks, users, new(MockAssignmentRepository), new(MockCourseRepository))
		result, err := svc.CompleteTask(ctx, taskID)

		require.NoError(t, err)
		assert.Equal(t, 15, result.PointsEarned)
		assert.False(t, result.AssignmentCompleted)
		assert.Equal(t, 45, result.TotalPoints)
		assert.True(t, result.Task.IsCompleted)
		tasks.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("success - last task closes assignment and adds bonus", func(t *testing.T) {
		tasks := new(MockTaskRepository)
		users := new(MockUserRepository)
		assignments := new(MockAssignmentRepository)
		assignmentID := uuid.New()

		// награда задачи 10, бонус задания 50, итог для пользователя 60
		tasks.On("GetByID", mock.Anything, taskID).Return(&task.Task{
			TaskID:       taskID,
			UserID:       "user-1",
			AssignmentID: &assignmentID,
			Type:         task.TypeAssignment,
			RewardPoints: 10,
		}, nil)
		tasks.On("Complete", mock.Anything, taskID, mock.Anything).Return(nil)
		users.On("UpdatePoints", mock.Anything, "user-1", 10).Return(nil)

		tasks.On("FetchUncompletedByAssignment", mock.Anything, assignmentID).Return([]*task.Task{}, nil)
		assignments.On("GetByID", mock.Anything, assignmentID).Return(&assignment.Assignment{
			AssignmentID:     assignmentID,
			Title:            "Essay",
			CompletionPoints: 50,
		}, nil)
		assignments.On("Complete", mock.Anything, assignmentID).Return(nil)
		users.On("UpdatePoints", mock.Anything, "user-1", 50).Return(nil)

		users.On("GetByID", mock.Anything, "user-1").Return(&user.User{
			UserID:      "user-1",
			TotalPoints: 60,
		}, nil)

		svc := newTaskService(tasks, users, assignments, new(MockCourseRepository))
		result, err := svc.CompleteTask(ctx, taskID)

		require.NoError(t, err)
		assert.Equal(t, 10, result.PointsEarned)
		assert.True(t, result.AssignmentCompleted)
		assert.Equal(t, 50, result.BonusPoints)
		assert.Equal(t, 60, result.TotalPoints)
		tasks.AssertExpectations(t)
		users.AssertExpectations(t)
		assignments.AssertExpectations(t)
	})

	t.Run("remaining tasks keep assignment open", func(t *testing.T) {
		tasks := new(MockTaskRepository)
		users := new(MockUserRepository)
		assignments := new(MockAssignmentRepository)
		assignmentID := uuid.New()

		tasks.On("GetByID", mock.Anything, taskID).Return(&task.Task{
			TaskID:       taskID,
			UserID:       "user-1",
			AssignmentID: &assignmentID,
			Type:         task.TypeAssignment,
			RewardPoints: 10,
		}, nil)
		tasks.On("Complete", mock.Anything, taskID, mock.Anything).Return(nil)
		users.On("UpdatePoints", mock.Anything, "user-1", 10).Return(nil)
		tasks.On("FetchUncompletedByAssignment", mock.Anything, assignmentID).Return([]*task.Task{
			{TaskID: uuid.New()},
		}, nil)
		users.On("GetByID", mock.Anything, "user-1").Return(&user.User{
			UserID:      "user-1",
			TotalPoints: 10,
		}, nil)

		svc := newTaskService(tasks, users, assignments, new(MockCourseRepository))
		result, err := svc.CompleteTask(ctx, taskID)

		require.NoError(t, err)
		assert.False(t, result.AssignmentCompleted)
		assert.Equal(t, 0, result.BonusPoints)
		assignments.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("error - already completed", func(t *testing.T) {
		tasks := new(MockTaskRepository)
		tasks.On("GetByID", mock.Anything, taskID).Return(&task.Task{
			TaskID:      taskID,
			UserID:      "user-1",
			IsCompleted: true,
		}, nil)

		svc := newTaskService(tasks, new(MockUserRepository), new(MockAssignmentRepository), new(MockCourseRepository))
		_, err := svc.CompleteTask(ctx, taskID)

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeAlreadyCompleted, busErr.Code)
	})

	t.Run("error - task not found", func(t *testing.T) {
		tasks := new(MockTaskRepository)
		tasks.On("GetByID", mock.Anything, taskID).Return(nil, rep.ErrNotFound)

		svc := newTaskService(tasks, new(MockUserRepository), new(MockAssignmentRepository), new(MockCourseRepository))
		_, err := svc.CompleteTask(ctx, taskID)

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeNotFound, busErr.Code)
	})

	t.Run("level up persists new level", func(t *testing.T) {
		tasks := new(MockTaskRepository)
		users := new(MockUserRepository)

		tasks.On("GetByID", mock.Anything, taskID).Return(&task.Task{
			TaskID:       taskID,
			UserID:       "user-1",
			Type:         task.TypeStudy,
			RewardPoints: 15,
		}, nil)
		tasks.On("Complete", mock.Anything, taskID, mock.Anything).Return(nil)
		users.On("UpdatePoints", mock.Anything, "user-1", 15).Return(nil)
		users.On("GetByID", mock.Anything, "user-1").Return(&user.User{
			UserID:       "user-1",
			TotalPoints:  105,
			CurrentLevel: 0,
		}, nil)
		users.On("UpdateLevel", mock.Anything, "user-1", 1).Return(nil)

		svc := newTaskService(tasks, users, new(MockAssignmentRepository), new(MockCourseRepository))
		result, err := svc.CompleteTask(ctx, taskID)

		require.NoError(t, err)
		assert.Equal(t, 1, result.CurrentLevel)
		users.AssertExpectations(t)
	})
}

// TestUserService_CreateUser тестирует регистрацию пользователя
func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("success - new user", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, "user-1").Return(nil, rep.ErrNotFound)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
			return u.UserID == "user-1" && u.TotalPoints == 0 && u.CurrentLevel == 0
		})).Return(nil)

		svc := service.NewUserService(users)
		u, err := svc.CreateUser(ctx, "user-1", service.WithCanvasUsername("student"))

		require.NoError(t, err)
		assert.Equal(t, "student", u.CanvasUsername)
		users.AssertExpectations(t)
	})

	t.Run("existing user returned as is", func(t *testing.T) {
		users := new(MockUserRepository)
		existing := &user.User{UserID: "user-1", TotalPoints: 300}
		users.On("GetByID", mock.Anything, "user-1").Return(existing, nil)

		svc := service.NewUserService(users)
		u, err := svc.CreateUser(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, 300, u.TotalPoints)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("error - empty id", func(t *testing.T) {
		svc := service.NewUserService(new(MockUserRepository))
		_, err := svc.CreateUser(ctx, "")

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeValidationError, busErr.Code)
	})
}

// TestRewardsService_Purchase тестирует вскрытие коробки
func TestRewardsService_Purchase(t *testing.T) {
	ctx := context.Background()
	seriesID := uuid.New()

	series := &blindbox.Series{
		SeriesID:   seriesID,
		Name:       "Campus Cats",
		CostPoints: 100,
	}
	figures := []*blindbox.Figure{
		{FigureID: uuid.New(), SeriesID: seriesID, Name: "Tabby", Rarity: blindbox.RarityCommon},
		{FigureID: uuid.New(), SeriesID: seriesID, Name: "Siamese", Rarity: blindbox.RarityRare},
		{FigureID: uuid.New(), SeriesID: seriesID, Name: "Golden", Rarity: blindbox.RaritySecret},
	}

	t.Run("success - specific series", func(t *testing.T) {
		boxes := new(MockBlindBoxRepository)
		users := new(MockUserRepository)

		users.On("GetByID", mock.Anything, "user-1").Return(&user.User{
			UserID:      "user-1",
			TotalPoints: 150,
		}, nil)
		boxes.On("GetSeriesByID", mock.Anything, seriesID).Return(series, nil)
		boxes.On("FetchFiguresBySeries", mock.Anything, seriesID).Return(figures, nil)
		users.On("UpdatePoints", mock.Anything, "user-1", -100).Return(nil)
		boxes.On("CreatePurchase", mock.Anything, mock.MatchedBy(func(p *blindbox.Purchase) bool {
			return p.UserID == "user-1" && p.FigureID != uuid.Nil
		})).Return(nil)

		svc := service.NewRewardsService(boxes, users)
		result, err := svc.Purchase(ctx, "user-1", &seriesID)

		require.NoError(t, err)
		assert.Equal(t, 100, result.PointsSpent)
		assert.Equal(t, 50, result.RemainingPoints)
		assert.NotNil(t, result.Figure)
		boxes.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("cheapest affordable when series not given", func(t *testing.T) {
		boxes := new(MockBlindBoxRepository)
		users := new(MockUserRepository)

		users.On("GetByID", mock.Anything, "user-1").Return(&user.User{
			UserID:      "user-1",
			TotalPoints: 150,
		}, nil)
		boxes.On("FetchAffordableSeries", mock.Anything, 150).Return([]*blindbox.Series{series}, nil)
		boxes.On("FetchFiguresBySeries", mock.Anything, seriesID).Return(figures, nil)
		users.On("UpdatePoints", mock.Anything, "user-1", -100).Return(nil)
		boxes.On("CreatePurchase", mock.Anything, mock.Anything).Return(nil)

		svc := service.NewRewardsService(boxes, users)
		result, err := svc.Purchase(ctx, "user-1", nil)

		require.NoError(t, err)
		assert.Equal(t, seriesID, result.Series.SeriesID)
	})

	t.Run("error - insufficient points", func(t *testing.T) {
		boxes := new(MockBlindBoxRepository)
		users := new(MockUserRepository)

		users.On("GetByID", mock.Anything, "user-1").Return(&user.User{
			UserID:      "user-1",
			TotalPoints: 30,
		}, nil)
		boxes.On("GetSeriesByID", mock.Anything, seriesID).Return(series, nil)

		svc := service.NewRewardsService(boxes, users)
		_, err := svc.Purchase(ctx, "user-1", &seriesID)

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeInsufficientPoints, busErr.Code)
		users.AssertNotCalled(t, "UpdatePoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("error - nothing affordable", func(t *testing.T) {
		boxes := new(MockBlindBoxRepository)
		users := new(MockUserRepository)

		users.On("GetByID", mock.Anything, "user-1").Return(&user.User{
			UserID:      "user-1",
			TotalPoints: 10,
		}, nil)
		boxes.On("FetchAffordableSeries", mock.Anything, 10).Return([]*blindbox.Series{}, nil)

		svc := service.NewRewardsService(boxes, users)
		_, err := svc.Purchase(ctx, "user-1", nil)

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeNoAffordableSeries, busErr.Code)
	})

	t.Run("error - empty series refunds nothing", func(t *testing.T) {
		boxes := new(MockBlindBoxRepository)
		users := new(MockUserRepository)

		users.On("GetByID", mock.Anything, "user-1").Return(&user.User{
			UserID:      "user-1",
			TotalPoints: 150,
		}, nil)
		boxes.On("GetSeriesByID", mock.Anything, seriesID).Return(series, nil)
		boxes.On("FetchFiguresBySeries", mock.Anything, seriesID).Return([]*blindbox.Figure{}, nil)

		svc := service.NewRewardsService(boxes, users)
		_, err := svc.Purchase(ctx, "user-1", &seriesID)

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeEmptySeries, busErr.Code)
		users.AssertNotCalled(t, "UpdatePoints", mock.Anything, mock.Anything, mock.Anything)
	})
}

// TestProgressService_AssignmentProgress тестирует расчёт прогресса задания
func TestProgressService_AssignmentProgress(t *testing.T) {
	ctx := context.Background()
	assignmentID := uuid.New()

	tasks := new(MockTaskRepository)
	assignments := new(MockAssignmentRepository)

	assignments.On("GetByID", mock.Anything, assignmentID).Return(&assignment.Assignment{
		AssignmentID: assignmentID,
		Title:        "Problem Set 3",
	}, nil)
	tasks.On("FetchByAssignment", mock.Anything, assignmentID).Return([]*task.Task{
		{TaskID: uuid.New(), IsCompleted: true},
		{TaskID: uuid.New(), IsCompleted: true},
		{TaskID: uuid.New(), IsCompleted: false},
		{TaskID: uuid.New(), IsCompleted: false},
	}, nil)

	svc := service.NewProgressService(tasks, new(MockUserRepository), assignments, new(MockCourseRepository))
	progress, err := svc.AssignmentProgress(ctx, assignmentID)

	require.NoError(t, err)
	assert.Equal(t, 4, progress.TaskCount)
	assert.Equal(t, 2, progress.CompletedTaskCount)
	assert.Equal(t, 50, progress.PercentComplete)
}

// TestTaskService_FetchView тестирует выбор вкладки
func TestTaskService_FetchView(t *testing.T) {
	ctx := context.Background()

	t.Run("error - unknown filter", func(t *testing.T) {
		svc := newTaskService(new(MockTaskRepository), new(MockUserRepository), new(MockAssignmentRepository), new(MockCourseRepository))
		_, err := svc.FetchView(ctx, "user-1", "archived", todo.Extra{})

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeValidationError, busErr.Code)
	})

	t.Run("grouped view for all", func(t *testing.T) {
		tasks := new(MockTaskRepository)
		end := time.Now().Add(2 * time.Hour)

		tasks.On("FetchByUser", mock.Anything, "user-1", mock.MatchedBy(func(f rep.TaskFilter) bool {
			return f.IsCompleted != nil && !*f.IsCompleted
		})).Return([]*task.Task{
			{TaskID: uuid.New(), UserID: "user-1", ScheduledEndAt: &end},
		}, nil)
		tasks.On("FetchByUser", mock.Anything, "user-1", mock.MatchedBy(func(f rep.TaskFilter) bool {
			return f.IsCompleted != nil && *f.IsCompleted
		})).Return([]*task.Task{}, nil)

		svc := newTaskService(tasks, new(MockUserRepository), new(MockAssignmentRepository), new(MockCourseRepository))
		view, err := svc.FetchView(ctx, "user-1", todo.FilterAll, todo.Extra{})

		require.NoError(t, err)
		assert.True(t, view.Grouped)
		assert.Equal(t, 1, view.Len())
	})
}

// repo error wrapped, not swallowed
func TestTaskService_GetTaskByID_RepoError(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()

	tasks := new(MockTaskRepository)
	tasks.On("GetByID", mock.Anything, taskID).Return(nil, errors.New("connection refused"))

	svc := newTaskService(tasks, new(MockUserRepository), new(MockAssignmentRepository), new(MockCourseRepository))
	_, err := svc.GetTaskByID(ctx, taskID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "получение задачи")
}
