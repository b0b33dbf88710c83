package alarm

import (
	"fmt"
	"sync"
	"time"

	"studyPaw/internal/logger"
	"studyPaw/internal/models/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry хранит отложенные напоминания по ключу "<тип>-<id задачи>".
// Повторная установка по тому же ключу перезаводит таймер.
type Registry struct {
	mtx    sync.Mutex
	timers map[string]*time.Timer
}

func NewRegistry() *Registry {
	return &Registry{
		timers: make(map[string]*time.Timer),
	}
}

func Key(taskType task.Type, taskID uuid.UUID) string {
	return fmt.Sprintf("%s-%s", taskType, taskID)
}

// Schedule заводит напоминание на момент at. Если момент уже прошёл,
// fire вызывается сразу в отдельной горутине.
func (r *Registry) Schedule(key string, at time.Time, fire func()) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if old, ok := r.timers[key]; ok {
		old.Stop()
	}

	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}

	r.timers[key] = time.AfterFunc(delay, func() {
		r.mtx.Lock()
		delete(r.timers, key)
		r.mtx.Unlock()
		fire()
	})

	logger.Info("Alarm: Напоминание заведено",
		zap.String("key", key),
		zap.Time("at", at))
}

// Exists сообщает, заведено ли напоминание по ключу
func (r *Registry) Exists(key string) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	_, ok := r.timers[key]
	return ok
}

// Clear снимает напоминание. Возвращает false, если его не было.
func (r *Registry) Clear(key string) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	t, ok := r.timers[key]
	if !ok {
		return false
	}
	t.Stop()
	delete(r.timers, key)

	logger.Info("Alarm: Напоминание снято", zap.String("key", key))
	return true
}

// Stop снимает все напоминания, используется при остановке сервиса
func (r *Registry) Stop() {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for key, t := range r.timers {
		t.Stop()
		delete(r.timers, key)
	}
}

func (r *Registry) Len() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return len(r.timers)
}
