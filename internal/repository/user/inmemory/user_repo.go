package inmemory

import (
	"context"
	"sync"

	"studyPaw/internal/models/user"
	repo "studyPaw/internal/repository"
)

type UserStorage struct {
	storage map[string]*user.User
	mtx     *sync.RWMutex
	ids     []string
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		storage: make(map[string]*user.User),
		mtx:     &sync.RWMutex{},
		ids:     []string{},
	}
}

func (s *UserStorage) Create(ctx context.Context, u *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage[u.UserID] = u
	s.ids = append(s.ids, u.UserID)
	return nil
}

func (s *UserStorage) GetByID(ctx context.Context, userID string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.storage[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *UserStorage) FetchAll(ctx context.Context) ([]*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*user.User, 0, len(s.ids))
	for _, id := range s.ids {
		copied := *s.storage[id]
		res = append(res, &copied)
	}
	return res, nil
}

// UpdatePoints меняет total_points на delta, delta может быть отрицательной
func (s *UserStorage) UpdatePoints(ctx context.Context, userID string, delta int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	u, ok := s.storage[userID]
	if !ok {
		return repo.ErrNotFound
	}
	u.TotalPoints += delta
	return nil
}

func (s *UserStorage) UpdateLevel(ctx context.Context, userID string, level int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	u, ok := s.storage[userID]
	if !ok {
		return repo.ErrNotFound
	}
	u.CurrentLevel = level
	return nil
}

func (s *UserStorage) Delete(ctx context.Context, userID string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[userID]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, userID)
	for ind, val := range s.ids {
		if val == userID {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}
