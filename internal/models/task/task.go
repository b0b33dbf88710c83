package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	TaskID           uuid.UUID  `json:"task_id" db:"task_id"`
	UserID           string     `json:"user_id" db:"user_id"`
	AssignmentID     *uuid.UUID `json:"assignment_id,omitempty" db:"assignment_id"`
	CourseID         *string    `json:"course_id,omitempty" db:"course_id"`
	Description      string     `json:"description" db:"description"`
	Type             Type       `json:"type" db:"type"`
	ScheduledStartAt *time.Time `json:"scheduled_start_at,omitempty" db:"scheduled_start_at"`
	ScheduledEndAt   *time.Time `json:"scheduled_end_at,omitempty" db:"scheduled_end_at"`
	IsCompleted      bool       `json:"is_completed" db:"is_completed"`
	CompletionDateAt *time.Time `json:"completion_date_at,omitempty" db:"completion_date_at"`
	RewardPoints     int        `json:"reward_points" db:"reward_points"`
}

type Type string

const TypeAssignment Type = "assignment"
const TypeStudy Type = "study"
const TypeReading Type = "reading"
const TypeExercise Type = "exercise"
const TypeBreak Type = "break"
const TypeExam Type = "exam"
const TypeClass Type = "class"
const TypePersonal Type = "personal"
const TypeOther Type = "other"

// максимум награды за одну задачу
const MaxRewardPoints = 20

type TypeInfo struct {
	Value         Type
	Label         string
	DefaultPoints int
}

// каталог типов задач, порядок важен для выдачи в UI
var Catalog = []TypeInfo{
	{TypeAssignment, "📝 Assignment/Tutorial/Quiz", 20},
	{TypeStudy, "📚 Study/Review Session", 15},
	{TypeReading, "📖 Required Reading", 10},
	{TypeExercise, "💪 Exercise", 10},
	{TypeBreak, "☕ Break", 5},
	{TypeExam, "📋 Exam/Test", 15},
	{TypeClass, "🏫 Class", 10},
	{TypePersonal, "🏠 Personal", 5},
	{TypeOther, "📌 Other", 5},
}

func (t Type) Valid() bool {
	for _, info := range Catalog {
		if info.Value == t {
			return true
		}
	}
	return false
}

func (t Type) Label() string {
	for _, info := range Catalog {
		if info.Value == t {
			return info.Label
		}
	}
	return string(t)
}

func (t Type) DefaultPoints() int {
	for _, info := range Catalog {
		if info.Value == t {
			return info.DefaultPoints
		}
	}
	return 0
}

// HasReminder — для exercise и break ставится напоминание-будильник
func (t Type) HasReminder() bool {
	return t == TypeExercise || t == TypeBreak
}
