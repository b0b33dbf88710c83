package inmemory

import (
	"context"
	"sync"

	"studyPaw/internal/models/assignment"
	repo "studyPaw/internal/repository"

	"github.com/google/uuid"
)

type AssignmentStorage struct {
	storage map[uuid.UUID]*assignment.Assignment
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewAssignmentStorage() *AssignmentStorage {
	return &AssignmentStorage{
		storage: make(map[uuid.UUID]*assignment.Assignment),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *AssignmentStorage) Create(ctx context.Context, a *assignment.Assignment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage[a.AssignmentID] = a
	s.ids = append(s.ids, a.AssignmentID)
	return nil
}

func (s *AssignmentStorage) GetByID(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	a, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *AssignmentStorage) Update(ctx context.Context, a *assignment.Assignment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[a.AssignmentID]; !ok {
		return repo.ErrNotFound
	}
	s.storage[a.AssignmentID] = a
	return nil
}

func (s *AssignmentStorage) Complete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	a, ok := s.storage[id]
	if !ok {
		return repo.ErrNotFound
	}
	a.IsComplete = true
	return nil
}

func (s *AssignmentStorage) Delete(ctx context.Context, id uuid.UUID) error {
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

func (s *AssignmentStorage) FetchByCourse(ctx context.Context, courseID string) ([]*assignment.Assignment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*assignment.Assignment{}
	for _, id := range s.ids {
		a := s.storage[id]
		if courseID != "" && a.CourseID != courseID {
			continue
		}
		copied := *a
		res = append(res, &copied)
	}
	return res, nil
}
