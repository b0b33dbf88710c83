package dto

import (
	"time"

	"studyPaw/internal/models/task"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	UserID           string     `json:"user_id"`
	Description      string     `json:"description"`
	Type             task.Type  `json:"type"`
	CourseID         string     `json:"course_id,omitempty"`
	AssignmentID     *uuid.UUID `json:"assignment_id,omitempty"`
	ScheduledStartAt *time.Time `json:"scheduled_start_at,omitempty"`
	ScheduledEndAt   *time.Time `json:"scheduled_end_at,omitempty"`
	RewardPoints     *int       `json:"reward_points,omitempty"`
}

type UpdateTaskRequest struct {
	Description      *string    `json:"description,omitempty"`
	Type             *task.Type `json:"type,omitempty"`
	CourseID         *string    `json:"course_id,omitempty"`
	ScheduledStartAt *time.Time `json:"scheduled_start_at,omitempty"`
	ScheduledEndAt   *time.Time `json:"scheduled_end_at,omitempty"`
	RewardPoints     *int       `json:"reward_points,omitempty"`
}

type CreateUserRequest struct {
	UserID         string `json:"user_id"`
	CanvasUsername string `json:"canvas_username,omitempty"`
	CanvasDomain   string `json:"canvas_domain,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

type CreateAssignmentRequest struct {
	CourseID         string     `json:"course_id,omitempty"`
	Title            string     `json:"title"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	CompletionPoints int        `json:"completion_points"`
}

type CreateCourseRequest struct {
	CourseID       string `json:"course_id"`
	UserID         string `json:"user_id,omitempty"`
	CourseName     string `json:"course_name"`
	CourseCode     string `json:"course_code,omitempty"`
	CanvasCourseID string `json:"canvas_course_id,omitempty"`
	Term           string `json:"term,omitempty"`
	Color          string `json:"color,omitempty"`
}

type CreateSeriesRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CostPoints  int             `json:"cost_points"`
	Figures     []FigureRequest `json:"figures,omitempty"`
}

type FigureRequest struct {
	Name     string `json:"name"`
	Rarity   string `json:"rarity,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type PurchaseRequest struct {
	UserID   string     `json:"user_id"`
	SeriesID *uuid.UUID `json:"series_id,omitempty"`
}

// TypeOption — вариант типа задачи для выпадающего списка в UI
type TypeOption struct {
	Value         string `json:"value"`
	Label         string `json:"label"`
	DefaultPoints int    `json:"default_points"`
}

func FromCatalog(infos []task.TypeInfo) []TypeOption {
	result := make([]TypeOption, len(infos))
	for i, info := range infos {
		result[i] = TypeOption{
			Value:         string(info.Value),
			Label:         info.Label,
			DefaultPoints: info.DefaultPoints,
		}
	}
	return result
}
