package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("запись не найдена")

// TaskFilter — параметры выборки задач пользователя, nil-поля не фильтруют
type TaskFilter struct {
	IsCompleted      *bool
	AssignmentID     *uuid.UUID
	ScheduledStartAt *time.Time
	ScheduledEndAt   *time.Time
}
