package client

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// CursorStore — файловое хранилище единственного значения: какой курсор
// надет. Пустой файл или его отсутствие значит, что курсор не выбран.
type CursorStore struct {
	path string
	mtx  sync.Mutex
}

func NewCursorStore(path string) *CursorStore {
	return &CursorStore{path: path}
}

func (s *CursorStore) Get() (string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("чтение курсора: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *CursorStore) Set(cursor string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if err := os.WriteFile(s.path, []byte(cursor), 0o644); err != nil {
		return fmt.Errorf("запись курсора: %w", err)
	}
	return nil
}

func (s *CursorStore) Clear() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("удаление курсора: %w", err)
	}
	return nil
}
