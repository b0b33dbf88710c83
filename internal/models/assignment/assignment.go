package assignment

import (
	"time"

	"github.com/google/uuid"
)

type Assignment struct {
	AssignmentID     uuid.UUID  `json:"assignment_id" db:"assignment_id"`
	CourseID         string     `json:"course_id" db:"course_id"`
	Title            string     `json:"title" db:"title"`
	DueDate          *time.Time `json:"due_date,omitempty" db:"due_date"`
	CompletionPoints int        `json:"completion_points" db:"completion_points"`
	IsComplete       bool       `json:"is_complete" db:"is_complete"`
}

// Progress — прогресс по заданию, считается по задачам и в БД не хранится
type Progress struct {
	Assignment
	TaskCount          int `json:"task_count"`
	CompletedTaskCount int `json:"completed_task_count"`
	PercentComplete    int `json:"percent_complete"`
}

func ComputeProgress(a Assignment, taskCount, completedTaskCount int) Progress {
	percent := 0
	if taskCount > 0 {
		percent = int(float64(completedTaskCount)/float64(taskCount)*100 + 0.5)
	} else if a.IsComplete {
		percent = 100
	}
	return Progress{
		Assignment:         a,
		TaskCount:          taskCount,
		CompletedTaskCount: completedTaskCount,
		PercentComplete:    percent,
	}
}
