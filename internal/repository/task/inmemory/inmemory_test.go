package inmemory_test

import (
	"context"
	"testing"
	"time"

	"studyPaw/internal/models/task"
	repo "studyPaw/internal/repository"
	"studyPaw/internal/repository/task/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(userID string) *task.Task {
	return &task.Task{
		TaskID:       uuid.New(),
		UserID:       userID,
		Description:  "test task",
		Type:         task.TypeStudy,
		RewardPoints: 15,
	}
}

func TestTaskStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("user-1")
	require.NoError(t, storage.Create(ctx, created))

	got, err := storage.GetByID(ctx, created.TaskID)
	require.NoError(t, err)
	assert.Equal(t, created.TaskID, got.TaskID)
	assert.Equal(t, created.Description, got.Description)

	// репозиторий отдаёт копию, мутация снаружи не видна внутри
	got.Description = "mutated"
	again, err := storage.GetByID(ctx, created.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "test task", again.Description)
}

func TestTaskStorage_GetByID_NotFound(t *testing.T) {
	storage := inmemory.NewTaskStorage()

	_, err := storage.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestTaskStorage_Complete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("user-1")
	require.NoError(t, storage.Create(ctx, created))

	at := time.Now()
	require.NoError(t, storage.Complete(ctx, created.TaskID, at))

	got, err := storage.GetByID(ctx, created.TaskID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	require.NotNil(t, got.CompletionDateAt)
	assert.True(t, got.CompletionDateAt.Equal(at))
}

func TestTaskStorage_FetchByUser(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	mine := newTask("user-1")
	other := newTask("user-2")
	done := newTask("user-1")
	done.IsCompleted = true

	require.NoError(t, storage.Create(ctx, mine))
	require.NoError(t, storage.Create(ctx, other))
	require.NoError(t, storage.Create(ctx, done))

	t.Run("all for user", func(t *testing.T) {
		got, err := storage.FetchByUser(ctx, "user-1", repo.TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("only incomplete", func(t *testing.T) {
		incomplete := false
		got, err := storage.FetchByUser(ctx, "user-1", repo.TaskFilter{IsCompleted: &incomplete})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, mine.TaskID, got[0].TaskID)
	})

	t.Run("unknown user is empty", func(t *testing.T) {
		got, err := storage.FetchByUser(ctx, "ghost", repo.TaskFilter{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestTaskStorage_FetchByAssignment(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	assignmentID := uuid.New()

	linked := newTask("user-1")
	linked.AssignmentID = &assignmentID
	linkedDone := newTask("user-1")
	linkedDone.AssignmentID = &assignmentID
	linkedDone.IsCompleted = true
	loose := newTask("user-1")

	require.NoError(t, storage.Create(ctx, linked))
	require.NoError(t, storage.Create(ctx, linkedDone))
	require.NoError(t, storage.Create(ctx, loose))

	all, err := storage.FetchByAssignment(ctx, assignmentID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	uncompleted, err := storage.FetchUncompletedByAssignment(ctx, assignmentID)
	require.NoError(t, err)
	require.Len(t, uncompleted, 1)
	assert.Equal(t, linked.TaskID, uncompleted[0].TaskID)
}

func TestTaskStorage_FetchUpcomingReminders(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	now := time.Now()

	soonStart := now.Add(30 * time.Minute)
	lateStart := now.Add(3 * time.Hour)

	exercise := newTask("user-1")
	exercise.Type = task.TypeExercise
	exercise.ScheduledStartAt = &soonStart

	study := newTask("user-1")
	study.ScheduledStartAt = &soonStart

	breakLater := newTask("user-1")
	breakLater.Type = task.TypeBreak
	breakLater.ScheduledStartAt = &lateStart

	require.NoError(t, storage.Create(ctx, exercise))
	require.NoError(t, storage.Create(ctx, study))
	require.NoError(t, storage.Create(ctx, breakLater))

	got, err := storage.FetchUpcomingReminders(ctx, now.Add(time.Hour), 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, exercise.TaskID, got[0].TaskID)
}

func TestTaskStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("user-1")
	require.NoError(t, storage.Create(ctx, created))
	require.NoError(t, storage.Delete(ctx, created.TaskID))

	_, err := storage.GetByID(ctx, created.TaskID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	assert.ErrorIs(t, storage.Delete(ctx, created.TaskID), repo.ErrNotFound)
}
