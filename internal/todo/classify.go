package todo

import (
	"time"

	"studyPaw/internal/models/task"
)

// Bucket — к каким вкладкам относится задача. Сегодняшняя задача с прошедшим
// дедлайном попадает и в today, и в overdue, это не взаимоисключающие признаки.
type Bucket struct {
	Today       bool
	Upcoming    bool
	Overdue     bool
	Unscheduled bool
	DaysOverdue int
}

func Classify(t *task.Task, now time.Time) Bucket {
	if t.ScheduledEndAt == nil {
		return Bucket{Unscheduled: true}
	}

	end := t.ScheduledEndAt.In(now.Location())
	endDay := startOfDay(end)
	today := startOfDay(now)

	b := Bucket{
		Today:    endDay.Equal(today),
		Upcoming: endDay.After(today),
		Overdue:  end.Before(now),
	}
	if b.Overdue {
		b.DaysOverdue = DaysOverdue(end, now)
	}
	return b
}

// DaysOverdue считает целые дни просрочки: обе даты приводятся к концу
// суток по локальному времени, разница округляется вниз до целых дней.
func DaysOverdue(end, now time.Time) int {
	diff := endOfDay(now).Sub(endOfDay(end))
	days := int(diff.Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}
