package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"studyPaw/internal/handlers/dto"
	"studyPaw/internal/models/assignment"
	"studyPaw/internal/models/course"
	"studyPaw/internal/models/task"
	"studyPaw/internal/models/user"

	"github.com/google/uuid"
)

// Client — тонкая обёртка над HTTP API сервиса для расширения
type Client struct {
	baseURL string
	userID  string
	http    *http.Client
}

func New(baseURL, userID string) *Client {
	return &Client{
		baseURL: baseURL,
		userID:  userID,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError — ответ сервиса со статусом не 2xx
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: статус %d: %s", e.Status, e.Body)
}

// CombinedTasks — ответ /db/tasks/combined
type CombinedTasks struct {
	Incomplete []*task.Task     `json:"incomplete_tasks"`
	Completed  []*task.Task     `json:"completed_tasks"`
	Courses    []*course.Course `json:"course_options"`
	TaskTypes  []dto.TypeOption `json:"task_type_options"`
}

// CompletionResponse — ответ /db/tasks/{id}/complete
type CompletionResponse struct {
	Task                *task.Task `json:"task"`
	PointsEarned        int        `json:"points_earned"`
	AssignmentCompleted bool       `json:"assignment_completed"`
	BonusPoints         int        `json:"bonus_points"`
	TotalPoints         int        `json:"total_points"`
	CurrentLevel        int        `json:"current_level"`
}

func (c *Client) GetUser(ctx context.Context) (*user.User, error) {
	var envelope struct {
		User *user.User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/db/users/"+c.userID, nil, &envelope)
	if err != nil {
		return nil, err
	}
	return envelope.User, nil
}

func (c *Client) GetCombinedTasks(ctx context.Context) (*CombinedTasks, error) {
	combined := &CombinedTasks{}
	err := c.do(ctx, http.MethodGet, "/db/tasks/combined?user_id="+c.userID, nil, combined)
	if err != nil {
		return nil, err
	}
	return combined, nil
}

func (c *Client) CompleteTask(ctx context.Context, taskID uuid.UUID) (*CompletionResponse, error) {
	result := &CompletionResponse{}
	err := c.do(ctx, http.MethodPost, "/db/tasks/"+taskID.String()+"/complete", nil, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) CreateTask(ctx context.Context, request dto.CreateTaskRequest) (*task.Task, error) {
	request.UserID = c.userID

	var envelope struct {
		Task *task.Task `json:"task"`
	}
	err := c.do(ctx, http.MethodPost, "/db/tasks", request, &envelope)
	if err != nil {
		return nil, err
	}
	return envelope.Task, nil
}

func (c *Client) GetAssignment(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	var envelope struct {
		Assignment *assignment.Assignment `json:"assignment"`
	}
	err := c.do(ctx, http.MethodGet, "/db/assignments/"+id.String(), nil, &envelope)
	if err != nil {
		return nil, err
	}
	return envelope.Assignment, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("кодирование тела запроса: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("выполнение запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("разбор ответа: %w", err)
	}
	return nil
}
