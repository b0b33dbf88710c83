package course

type Course struct {
	CourseID       string `json:"course_id" db:"course_id"`
	UserID         string `json:"user_id" db:"user_id"`
	CourseName     string `json:"course_name" db:"course_name"`
	CourseCode     string `json:"course_code,omitempty" db:"course_code"`
	CanvasCourseID string `json:"canvas_course_id,omitempty" db:"canvas_course_id"`
	Term           string `json:"term,omitempty" db:"term"`
	Color          string `json:"color,omitempty" db:"color"`
}

type Progress struct {
	Course
	AssignmentCount          int `json:"assignment_count"`
	CompletedAssignmentCount int `json:"completed_assignment_count"`
	TaskCount                int `json:"task_count"`
	CompletedTaskCount       int `json:"completed_task_count"`
	OverallPercent           int `json:"overall_percent"`
}
