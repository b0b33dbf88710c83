package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studyPaw/internal/alarm"
	"studyPaw/internal/logger"
	"studyPaw/internal/models/task"
	"studyPaw/internal/models/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State — состояние завершения одной задачи
type State string

const StateIdle State = "idle"
const StateCompleting State = "completing"
const StateDone State = "done"
const StateFailed State = "failed"

const defaultRefreshDelay = 3 * time.Second

// Coordinator выполняет побочные эффекты завершения задачи: оптимистичное
// обновление очков, сверку с сервером, снятие напоминания и отложенное
// обновление списка. Состояние ведётся отдельно на каждую задачу.
type Coordinator struct {
	client       *Client
	alarms       *alarm.Registry
	refreshDelay time.Duration

	onPoints  func(delta int)      // оптимистичное начисление
	onUser    func(u *user.User)   // авторитетные данные с сервера
	onRefresh func(c *CombinedTasks)

	mtx     sync.Mutex
	states  map[uuid.UUID]State
	timer   *time.Timer
	pending sync.WaitGroup
}

type CoordinatorOption func(*Coordinator)

func WithRefreshDelay(d time.Duration) CoordinatorOption {
	if d <= 0 {
		return nil
	}
	return func(c *Coordinator) {
		c.refreshDelay = d
	}
}

func WithPointsCallback(fn func(delta int)) CoordinatorOption {
	return func(c *Coordinator) {
		c.onPoints = fn
	}
}

func WithUserCallback(fn func(u *user.User)) CoordinatorOption {
	return func(c *Coordinator) {
		c.onUser = fn
	}
}

func WithRefreshCallback(fn func(c *CombinedTasks)) CoordinatorOption {
	return func(c *Coordinator) {
		c.onRefresh = fn
	}
}

func NewCoordinator(apiClient *Client, alarms *alarm.Registry, options ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		client:       apiClient,
		alarms:       alarms,
		refreshDelay: defaultRefreshDelay,
		states:       make(map[uuid.UUID]State),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// StateOf возвращает состояние завершения задачи
func (c *Coordinator) StateOf(taskID uuid.UUID) State {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if s, ok := c.states[taskID]; ok {
		return s
	}
	return StateIdle
}

// Complete завершает задачу через API. Повторный вызов, пока задача ещё
// завершается, отклоняется.
func (c *Coordinator) Complete(ctx context.Context, taskID uuid.UUID, taskType task.Type) (*CompletionResponse, error) {
	c.mtx.Lock()
	if c.states[taskID] == StateCompleting {
		c.mtx.Unlock()
		return nil, fmt.Errorf("задача %s уже завершается", taskID)
	}
	c.states[taskID] = StateCompleting
	c.mtx.Unlock()

	result, err := c.client.CompleteTask(ctx, taskID)
	if err != nil {
		c.setState(taskID, StateFailed)
		return nil, fmt.Errorf("завершение задачи: %w", err)
	}

	c.setState(taskID, StateDone)
	c.TaskCompleted(ctx, taskID, taskType, result.PointsEarned)
	return result, nil
}

// TaskCompleted запускает побочные эффекты после успешного завершения:
// 1) очки прибавляются оптимистично; 2) асинхронно запрашивается
// пользователь, серверное значение перекрывает оптимистичное; 3) для
// exercise/break снимается напоминание; 4) через refreshDelay обновляется
// список, новые завершения в окне перезаводят таймер.
func (c *Coordinator) TaskCompleted(ctx context.Context, taskID uuid.UUID, taskType task.Type, pointsEarned int) {
	if c.onPoints != nil {
		c.onPoints(pointsEarned)
	}

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()

		u, err := c.client.GetUser(ctx)
		if err != nil {
			// оптимистичное значение остаётся до следующей сверки
			logger.Warn("Client: Не удалось сверить очки", zap.Error(err),
				zap.String("task_id", taskID.String()))
			return
		}
		if c.onUser != nil {
			c.onUser(u)
		}
	}()

	if taskType.HasReminder() && c.alarms != nil {
		key := alarm.Key(taskType, taskID)
		if !c.alarms.Clear(key) {
			logger.Warn("Client: Напоминание не найдено", zap.String("key", key))
		}
	}

	c.scheduleRefresh(ctx)
}

func (c *Coordinator) scheduleRefresh(ctx context.Context) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}

	c.timer = time.AfterFunc(c.refreshDelay, func() {
		combined, err := c.client.GetCombinedTasks(ctx)
		if err != nil {
			logger.Warn("Client: Не удалось обновить список", zap.Error(err))
			return
		}
		if c.onRefresh != nil {
			c.onRefresh(combined)
		}
	})
}

// Wait дожидается завершения фоновых сверок, используется при остановке
func (c *Coordinator) Wait() {
	c.pending.Wait()
}

// Stop снимает отложенное обновление списка
func (c *Coordinator) Stop() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coordinator) setState(taskID uuid.UUID, s State) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.states[taskID] = s
}
