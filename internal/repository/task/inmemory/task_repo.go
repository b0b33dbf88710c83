package inmemory

import (
	"context"
	"sync"
	"time"

	"studyPaw/internal/models/task"
	repo "studyPaw/internal/repository"

	"github.com/google/uuid"
)

type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage[taskToCreate.TaskID] = taskToCreate
	s.ids = append(s.ids, taskToCreate.TaskID)
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[taskToUpdate.TaskID]; !ok {
		return repo.ErrNotFound
	}
	s.storage[taskToUpdate.TaskID] = taskToUpdate
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *taskToGet
	return &copied, nil
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// Complete помечает задачу завершённой, переход односторонний
func (s *TaskStorage) Complete(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[id]
	if !ok {
		return repo.ErrNotFound
	}
	t.IsCompleted = true
	t.CompletionDateAt = &at
	return nil
}

func (s *TaskStorage) FetchByUser(ctx context.Context, userID string, filter repo.TaskFilter) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.UserID != userID {
			continue
		}
		if !matches(t, filter) {
			continue
		}
		copied := *t
		res = append(res, &copied)
	}
	return res, nil
}

func (s *TaskStorage) FetchByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.AssignmentID == nil || *t.AssignmentID != assignmentID {
			continue
		}
		copied := *t
		res = append(res, &copied)
	}
	return res, nil
}

func (s *TaskStorage) FetchUncompletedByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.IsCompleted || t.AssignmentID == nil || *t.AssignmentID != assignmentID {
			continue
		}
		copied := *t
		res = append(res, &copied)
	}
	return res, nil
}

// FetchUpcomingReminders — незавершённые exercise/break задачи, стартующие до deadline
func (s *TaskStorage) FetchUpcomingReminders(ctx context.Context, deadline time.Time, limit int) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		if len(res) >= limit {
			break
		}
		t := s.storage[id]
		if t.IsCompleted || !t.Type.HasReminder() || t.ScheduledStartAt == nil {
			continue
		}
		if t.ScheduledStartAt.After(deadline) {
			continue
		}
		copied := *t
		res = append(res, &copied)
	}
	return res, nil
}

func matches(t *task.Task, filter repo.TaskFilter) bool {
	if filter.IsCompleted != nil && t.IsCompleted != *filter.IsCompleted {
		return false
	}
	if filter.AssignmentID != nil && (t.AssignmentID == nil || *t.AssignmentID != *filter.AssignmentID) {
		return false
	}
	if filter.ScheduledStartAt != nil {
		if t.ScheduledStartAt == nil || t.ScheduledStartAt.Before(*filter.ScheduledStartAt) {
			return false
		}
	}
	if filter.ScheduledEndAt != nil {
		if t.ScheduledEndAt == nil || t.ScheduledEndAt.After(*filter.ScheduledEndAt) {
			return false
		}
	}
	return true
}
