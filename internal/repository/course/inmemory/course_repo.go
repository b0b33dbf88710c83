package inmemory

import (
	"context"
	"sync"

	"studyPaw/internal/models/course"
	repo "studyPaw/internal/repository"
)

type CourseStorage struct {
	storage map[string]*course.Course
	mtx     *sync.RWMutex
	ids     []string
}

func NewCourseStorage() *CourseStorage {
	return &CourseStorage{
		storage: make(map[string]*course.Course),
		mtx:     &sync.RWMutex{},
		ids:     []string{},
	}
}

func (s *CourseStorage) Create(ctx context.Context, c *course.Course) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage[c.CourseID] = c
	s.ids = append(s.ids, c.CourseID)
	return nil
}

func (s *CourseStorage) GetByID(ctx context.Context, courseID string) (*course.Course, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	c, ok := s.storage[courseID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *CourseStorage) FetchByUser(ctx context.Context, userID string) ([]*course.Course, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*course.Course{}
	for _, id := range s.ids {
		c := s.storage[id]
		if userID != "" && c.UserID != userID {
			continue
		}
		copied := *c
		res = append(res, &copied)
	}
	return res, nil
}
