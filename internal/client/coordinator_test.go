package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"studyPaw/internal/alarm"
	"studyPaw/internal/client"
	"studyPaw/internal/logger"
	"studyPaw/internal/models/task"
	"studyPaw/internal/models/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init(true); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// testServer эмулирует API: счётчики позволяют проверять дебаунс и сверку
type testServer struct {
	server        *httptest.Server
	totalPoints   atomic.Int64
	userFetches   atomic.Int64
	combinedCalls atomic.Int64
	completeCalls atomic.Int64
	failComplete  atomic.Bool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /db/users/", func(w http.ResponseWriter, r *http.Request) {
		ts.userFetches.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"user": &user.User{
				UserID:      "user-1",
				TotalPoints: int(ts.totalPoints.Load()),
			},
		})
	})

	mux.HandleFunc("GET /db/tasks/combined", func(w http.ResponseWriter, r *http.Request) {
		ts.combinedCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"incomplete_tasks":  []*task.Task{},
			"completed_tasks":   []*task.Task{},
			"course_options":    []any{},
			"task_type_options": []any{},
		})
	})

	mux.HandleFunc("POST /db/tasks/", func(w http.ResponseWriter, r *http.Request) {
		ts.completeCalls.Add(1)
		if ts.failComplete.Load() {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"error": "NOT_FOUND"})
			return
		}

		parts := strings.Split(r.URL.Path, "/")
		taskID := parts[3]

		ts.totalPoints.Add(10)
		json.NewEncoder(w).Encode(map[string]any{
			"task":          &task.Task{TaskID: uuid.MustParse(taskID), IsCompleted: true},
			"points_earned": 10,
			"total_points":  int(ts.totalPoints.Load()),
		})
	})

	ts.server = httptest.NewServer(mux)
	t.Cleanup(ts.server.Close)
	return ts
}

func TestCoordinator_OptimisticThenAuthoritative(t *testing.T) {
	ts := newTestServer(t)
	ts.totalPoints.Store(50)

	apiClient := client.New(ts.server.URL, "user-1")

	var mtx sync.Mutex
	var optimistic int
	var authoritative *user.User

	coordinator := client.NewCoordinator(apiClient, nil,
		client.WithRefreshDelay(20*time.Millisecond),
		client.WithPointsCallback(func(delta int) {
			mtx.Lock()
			optimistic += delta
			mtx.Unlock()
		}),
		client.WithUserCallback(func(u *user.User) {
			mtx.Lock()
			authoritative = u
			mtx.Unlock()
		}),
	)
	defer coordinator.Stop()

	coordinator.TaskCompleted(context.Background(), uuid.New(), task.TypeStudy, 10)

	// оптимистичное значение применяется синхронно
	mtx.Lock()
	assert.Equal(t, 10, optimistic)
	mtx.Unlock()

	// серверное значение приходит следом и перекрывает оптимистичное
	assert.Eventually(t, func() bool {
		mtx.Lock()
		defer mtx.Unlock()
		return authoritative != nil && authoritative.TotalPoints == 50
	}, time.Second, 10*time.Millisecond)
}

// TestCoordinator_DebounceCoalescing: несколько завершений в окне дают одно
// обновление списка
func TestCoordinator_DebounceCoalescing(t *testing.T) {
	ts := newTestServer(t)
	apiClient := client.New(ts.server.URL, "user-1")

	var refreshes atomic.Int64
	coordinator := client.NewCoordinator(apiClient, nil,
		client.WithRefreshDelay(80*time.Millisecond),
		client.WithRefreshCallback(func(c *client.CombinedTasks) {
			refreshes.Add(1)
		}),
	)
	defer coordinator.Stop()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		coordinator.TaskCompleted(ctx, uuid.New(), task.TypeStudy, 10)
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return refreshes.Load() == 1
	}, time.Second, 10*time.Millisecond)

	// выждали дольше окна: новых обновлений нет
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int64(1), refreshes.Load())
	assert.Equal(t, int64(1), ts.combinedCalls.Load())
}

// TestCoordinator_RefreshAfterLastCompletion: обновление списка происходит не
// раньше окна после последнего завершения
func TestCoordinator_RefreshAfterLastCompletion(t *testing.T) {
	ts := newTestServer(t)
	apiClient := client.New(ts.server.URL, "user-1")

	delay := 80 * time.Millisecond
	var refreshedAt atomic.Int64

	coordinator := client.NewCoordinator(apiClient, nil,
		client.WithRefreshDelay(delay),
		client.WithRefreshCallback(func(c *client.CombinedTasks) {
			refreshedAt.Store(time.Now().UnixNano())
		}),
	)
	defer coordinator.Stop()

	ctx := context.Background()
	coordinator.TaskCompleted(ctx, uuid.New(), task.TypeStudy, 10)
	time.Sleep(30 * time.Millisecond)
	last := time.Now()
	coordinator.TaskCompleted(ctx, uuid.New(), task.TypeStudy, 10)

	assert.Eventually(t, func() bool {
		return refreshedAt.Load() != 0
	}, time.Second, 10*time.Millisecond)

	elapsed := time.Duration(refreshedAt.Load() - last.UnixNano())
	assert.GreaterOrEqual(t, elapsed, delay,
		"обновление не может прийти раньше окна после последнего завершения")
}

func TestCoordinator_ClearsReminderAlarm(t *testing.T) {
	ts := newTestServer(t)
	apiClient := client.New(ts.server.URL, "user-1")

	alarms := alarm.NewRegistry()
	defer alarms.Stop()

	taskID := uuid.New()
	key := alarm.Key(task.TypeExercise, taskID)
	alarms.Schedule(key, time.Now().Add(time.Hour), func() {})
	require.True(t, alarms.Exists(key))

	coordinator := client.NewCoordinator(apiClient, alarms,
		client.WithRefreshDelay(20*time.Millisecond))
	defer coordinator.Stop()

	coordinator.TaskCompleted(context.Background(), taskID, task.TypeExercise, 10)

	assert.False(t, alarms.Exists(key), "напоминание exercise должно сняться")
}

func TestCoordinator_StateMachine(t *testing.T) {
	ts := newTestServer(t)
	apiClient := client.New(ts.server.URL, "user-1")

	coordinator := client.NewCoordinator(apiClient, nil,
		client.WithRefreshDelay(20*time.Millisecond))
	defer coordinator.Stop()

	ctx := context.Background()

	t.Run("idle before completion", func(t *testing.T) {
		assert.Equal(t, client.StateIdle, coordinator.StateOf(uuid.New()))
	})

	t.Run("done after success", func(t *testing.T) {
		taskID := uuid.New()
		result, err := coordinator.Complete(ctx, taskID, task.TypeStudy)

		require.NoError(t, err)
		assert.Equal(t, 10, result.PointsEarned)
		assert.Equal(t, client.StateDone, coordinator.StateOf(taskID))
	})

	t.Run("failed after api error", func(t *testing.T) {
		ts.failComplete.Store(true)
		defer ts.failComplete.Store(false)

		taskID := uuid.New()
		_, err := coordinator.Complete(ctx, taskID, task.TypeStudy)

		require.Error(t, err)
		assert.Equal(t, client.StateFailed, coordinator.StateOf(taskID))

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
	})

	coordinator.Wait()
}
