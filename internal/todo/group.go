package todo

import (
	"fmt"
	"sort"
	"time"

	"studyPaw/internal/models/task"
)

// Group — задачи одного календарного дня. Ключом служит нормализованная
// полночь локального дня, а не форматированная строка: человекочитаемая
// подпись выводится отдельно и обратно не парсится.
type Group struct {
	Day         time.Time
	Label       string
	Unscheduled bool
	Tasks       []*task.Task
}

// GroupByDate раскладывает задачи по календарным дням scheduled_end_at.
// Группы возвращаются в хронологическом порядке, задачи внутри группы
// сохраняют порядок входного списка. Задачи без даты собираются в
// отдельную группу Unscheduled в конце.
func GroupByDate(tasks []*task.Task, loc *time.Location) []Group {
	byDay := make(map[time.Time]*Group)
	var order []time.Time
	var unscheduled *Group

	for _, t := range tasks {
		if t.ScheduledEndAt == nil {
			if unscheduled == nil {
				unscheduled = &Group{Label: "Unscheduled", Unscheduled: true}
			}
			unscheduled.Tasks = append(unscheduled.Tasks, t)
			continue
		}

		day := startOfDay(t.ScheduledEndAt.In(loc))
		g, ok := byDay[day]
		if !ok {
			g = &Group{Day: day, Label: DayLabel(day)}
			byDay[day] = g
			order = append(order, day)
		}
		g.Tasks = append(g.Tasks, t)
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	groups := make([]Group, 0, len(order)+1)
	for _, day := range order {
		groups = append(groups, *byDay[day])
	}
	if unscheduled != nil {
		groups = append(groups, *unscheduled)
	}
	return groups
}

// DayLabel — подпись вида "Monday, Dec 2"
func DayLabel(day time.Time) string {
	return fmt.Sprintf("%s, %s %d", day.Weekday(), day.Month().String()[:3], day.Day())
}

// OverdueLabel добавляет к подписи группы суффикс с количеством дней
// просрочки, например "Monday, Dec 2 (3 days overdue)". Дни считаются по
// дню группы, поэтому у всех задач группы значение одинаковое.
func OverdueLabel(g Group, now time.Time) string {
	if g.Unscheduled {
		return g.Label
	}
	days := DaysOverdue(g.Day, now)
	word := "days"
	if days == 1 {
		word = "day"
	}
	return fmt.Sprintf("%s (%d %s overdue)", g.Label, days, word)
}
