package todo

import (
	"time"

	"studyPaw/internal/models/task"
)

type Filter string

const FilterAll Filter = "all"
const FilterToday Filter = "today"
const FilterUpcoming Filter = "upcoming"
const FilterOverdue Filter = "overdue"
const FilterCompleted Filter = "completed"

func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterToday, FilterUpcoming, FilterOverdue, FilterCompleted:
		return true
	}
	return false
}

// Grouped — для каких вкладок результат раскладывается по дням
func (f Filter) Grouped() bool {
	return f == FilterAll || f == FilterUpcoming || f == FilterOverdue
}

// Extra — дополнительные фильтры поверх вкладки: курс, тип задачи и
// диапазон дат включительно. Задачи без даты проходят фильтр по датам.
type Extra struct {
	CourseID string
	Type     task.Type
	From     *time.Time
	To       *time.Time
}

func (e Extra) Apply(tasks []*task.Task, loc *time.Location) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if e.CourseID != "" && (t.CourseID == nil || *t.CourseID != e.CourseID) {
			continue
		}
		if e.Type != "" && t.Type != e.Type {
			continue
		}
		if e.From != nil && t.ScheduledEndAt != nil {
			if t.ScheduledEndAt.In(loc).Before(startOfDay(e.From.In(loc))) {
				continue
			}
		}
		if e.To != nil && t.ScheduledEndAt != nil {
			if t.ScheduledEndAt.In(loc).After(endOfDay(e.To.In(loc))) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// View — результат выбора вкладки: либо плоский список (today, completed),
// либо группы по дням (all, upcoming, overdue).
type View struct {
	Filter  Filter
	Grouped bool
	Flat    []*task.Task
	Groups  []Group
}

func (v View) Len() int {
	if !v.Grouped {
		return len(v.Flat)
	}
	n := 0
	for _, g := range v.Groups {
		n += len(g.Tasks)
	}
	return n
}

// SelectView собирает содержимое вкладки из раздельных списков
// незавершённых и завершённых задач.
func SelectView(f Filter, incomplete, completed []*task.Task, extra Extra, now time.Time) View {
	loc := now.Location()
	selected := selectTasks(f, incomplete, completed, now)
	selected = extra.Apply(selected, loc)

	if f.Grouped() {
		return View{Filter: f, Grouped: true, Groups: GroupByDate(selected, loc)}
	}
	return View{Filter: f, Flat: selected}
}

// Count пересчитывает предикат вкладки заново, без кеширования, и всегда
// совпадает с размером SelectView для тех же аргументов.
func Count(f Filter, incomplete, completed []*task.Task, extra Extra, now time.Time) int {
	return len(extra.Apply(selectTasks(f, incomplete, completed, now), now.Location()))
}

func selectTasks(f Filter, incomplete, completed []*task.Task, now time.Time) []*task.Task {
	switch f {
	case FilterCompleted:
		return completed
	case FilterToday:
		return filterBy(incomplete, now, func(b Bucket) bool { return b.Today })
	case FilterUpcoming:
		return filterBy(incomplete, now, func(b Bucket) bool { return b.Upcoming })
	case FilterOverdue:
		return filterBy(incomplete, now, func(b Bucket) bool { return b.Overdue })
	default:
		return incomplete
	}
}

func filterBy(tasks []*task.Task, now time.Time, keep func(Bucket) bool) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(Classify(t, now)) {
			out = append(out, t)
		}
	}
	return out
}
