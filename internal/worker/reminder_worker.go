package worker

import (
	"context"
	"fmt"
	"time"

	"studyPaw/internal/alarm"
	"studyPaw/internal/logger"
	"studyPaw/internal/models/task"
	"studyPaw/internal/service"

	"go.uber.org/zap"
)

// ReminderWorker периодически подбирает exercise/break задачи, стартующие в
// ближайшем горизонте, и заводит на них напоминания в реестре.
type ReminderWorker struct {
	repo      service.TaskRepository
	alarms    *alarm.Registry
	interval  time.Duration
	horizon   time.Duration
	batchSize int
}

func NewReminderWorker(repo service.TaskRepository, alarms *alarm.Registry, interval *time.Duration, horizon *time.Duration, batchSize *int) *ReminderWorker {
	var intervalToSet time.Duration
	if interval == nil {
		intervalToSet = 5 * time.Minute
	} else {
		intervalToSet = *interval
	}

	var horizonToSet time.Duration
	if horizon == nil {
		horizonToSet = time.Hour
	} else {
		horizonToSet = *horizon
	}

	var batchToSet int
	if batchSize == nil {
		batchToSet = 100
	} else {
		batchToSet = *batchSize
	}

	return &ReminderWorker{
		repo:      repo,
		alarms:    alarms,
		interval:  intervalToSet,
		horizon:   horizonToSet,
		batchSize: batchToSet,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая проверка напоминаний", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			w.alarms.Stop()
			return
		}
	}
}

func (w *ReminderWorker) Check(ctx context.Context) {
	start := time.Now()

	tasks, err := w.upcomingTasks(ctx)
	if err != nil {
		logger.Warn("Worker: ошибка получения задач", zap.Error(err))
		return
	}

	scheduled := 0
	for _, t := range tasks {
		if t.ScheduledStartAt == nil {
			continue
		}

		key := alarm.Key(t.Type, t.TaskID)
		if w.alarms.Exists(key) {
			continue
		}

		w.alarms.Schedule(key, *t.ScheduledStartAt, fireReminder(t))
		scheduled++
	}

	logger.Info("Worker: Завершение проверки напоминаний",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(tasks)),
		zap.Int("scheduled", scheduled),
	)
}

func (w *ReminderWorker) upcomingTasks(ctx context.Context) ([]*task.Task, error) {
	deadline := time.Now().Add(w.horizon)

	tasks, err := w.repo.FetchUpcomingReminders(ctx, deadline, w.batchSize)
	if err != nil {
		return nil, fmt.Errorf("получение задач для напоминаний: %w", err)
	}
	return tasks, nil
}

func fireReminder(t *task.Task) func() {
	taskID := t.TaskID
	taskType := t.Type
	description := t.Description

	return func() {
		logger.Info("Worker: Время напоминания",
			zap.String("task_id", taskID.String()),
			zap.String("type", string(taskType)),
			zap.String("description", description))
	}
}
