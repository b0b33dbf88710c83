package task

import (
	"time"

	"github.com/google/uuid"
)

type TaskOption func(*Task)

func WithDescription(description string) TaskOption {
	if description == "" {
		return nil
	}
	return func(task *Task) {
		task.Description = description
	}
}

func WithType(t Type) TaskOption {
	if !t.Valid() {
		return nil
	}
	return func(task *Task) {
		task.Type = t
	}
}

func WithSchedule(start, end *time.Time) TaskOption {
	if start == nil && end == nil {
		return nil
	}
	return func(task *Task) {
		if start != nil {
			task.ScheduledStartAt = start
		}
		if end != nil {
			task.ScheduledEndAt = end
		}
	}
}

func WithRewardPoints(points int) TaskOption {
	if points < 0 || points > MaxRewardPoints {
		return nil
	}
	return func(task *Task) {
		task.RewardPoints = points
	}
}

func WithAssignment(assignmentID *uuid.UUID) TaskOption {
	if assignmentID == nil {
		return nil
	}
	return func(task *Task) {
		task.AssignmentID = assignmentID
	}
}

func WithCourse(courseID string) TaskOption {
	if courseID == "" {
		return nil
	}
	return func(task *Task) {
		task.CourseID = &courseID
	}
}
