package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"studyPaw/internal/handlers/dto"
	"studyPaw/internal/logger"
	"studyPaw/internal/models/task"
	"studyPaw/internal/service"
	"studyPaw/internal/todo"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService service.TaskService
}

func NewTaskHandler(taskService service.TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	options := []task.TaskOption{
		task.WithSchedule(request.ScheduledStartAt, request.ScheduledEndAt),
		task.WithCourse(request.CourseID),
		task.WithAssignment(request.AssignmentID),
	}
	if request.RewardPoints != nil {
		options = append(options, task.WithRewardPoints(*request.RewardPoints))
	}

	logger.Info("HTTP: Вызов сервиса создания задач")

	created, err := s.TaskService.CreateNewTask(r.Context(), request.UserID, request.Description, request.Type, options...)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.TaskID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", created))
}

// GetTasks отдаёт содержимое вкладки: query-параметры user_id, filter
// (all|today|upcoming|overdue|completed), course_id, type, from, to.
func (s *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		logger.Warn("HTTP: Неверное значение параметра",
			zap.String("query", "user_id"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "user_id не может быть пустым")
		return
	}

	filter := todo.Filter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = todo.FilterAll
	}

	extra := todo.Extra{
		CourseID: r.URL.Query().Get("course_id"),
		Type:     task.Type(r.URL.Query().Get("type")),
	}
	if from := r.URL.Query().Get("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			responseWithError(w, http.StatusBadRequest, "не удалось разобрать from: "+err.Error())
			return
		}
		extra.From = &parsed
	}
	if to := r.URL.Query().Get("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			responseWithError(w, http.StatusBadRequest, "не удалось разобрать to: "+err.Error())
			return
		}
		extra.To = &parsed
	}

	logger.Info("HTTP: Вызов сервиса для получения задач")

	view, err := s.TaskService.FetchView(r.Context(), userID, filter, extra)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.String("filter", string(filter)),
		zap.Int("count", view.Len()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	if view.Grouped {
		responseWithJSON(w, http.StatusOK,
			toPayload("filter", string(filter)),
			toPayload("grouped", true),
			toPayload("groups", view.Groups),
			toPayload("count", view.Len()),
		)
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("filter", string(filter)),
		toPayload("grouped", false),
		toPayload("tasks", view.Flat),
		toPayload("count", view.Len()),
	)
}

// GetCombined — обе половины списка и справочники одним ответом
func (s *TaskHandler) GetCombined(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		responseWithError(w, http.StatusBadRequest, "user_id не может быть пустым")
		return
	}

	combined, err := s.TaskService.Combined(r.Context(), userID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Комбинированный список получен",
		zap.Int("incomplete", len(combined.Incomplete)),
		zap.Int("completed", len(combined.Completed)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("incomplete_tasks", combined.Incomplete),
		toPayload("completed_tasks", combined.Completed),
		toPayload("course_options", combined.Courses),
		toPayload("task_type_options", dto.FromCatalog(combined.TaskTypes)),
	)
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP: Вызов сервиса для получения задачи")

	t, err := s.TaskService.GetTaskByID(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка в Service", err,
			zap.String("operation", "get_task"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", t.TaskID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", t))
}

func (s *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest

	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	options := []task.TaskOption{
		task.WithSchedule(request.ScheduledStartAt, request.ScheduledEndAt),
	}
	if request.Description != nil {
		options = append(options, task.WithDescription(*request.Description))
	}
	if request.Type != nil {
		options = append(options, task.WithType(*request.Type))
	}
	if request.CourseID != nil {
		options = append(options, task.WithCourse(*request.CourseID))
	}
	if request.RewardPoints != nil {
		options = append(options, task.WithRewardPoints(*request.RewardPoints))
	}

	logger.Info("HTTP: запрос к сервису обновления данных")

	updated, err := s.TaskService.UpdateTaskByID(r.Context(), id, options...)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_task"),
			zap.String("client_addr", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", updated))
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP: Обращение к сервису для удаления задачи")

	if err := s.TaskService.DeleteTaskByID(r.Context(), id); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "delete_task"),
			zap.String("client_addr", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

// CompleteTask завершает задачу и возвращает начисленные очки
func (s *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP: Вызов сервиса завершения задачи")

	result, err := s.TaskService.CompleteTask(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "complete_task"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача завершена",
		zap.String("task_id", id.String()),
		zap.Int("points_earned", result.PointsEarned),
		zap.Bool("assignment_completed", result.AssignmentCompleted),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("task", result.Task),
		toPayload("points_earned", result.PointsEarned),
		toPayload("assignment_completed", result.AssignmentCompleted),
		toPayload("bonus_points", result.BonusPoints),
		toPayload("total_points", result.TotalPoints),
		toPayload("current_level", result.CurrentLevel),
	)
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return uuid.Nil, false
	}

	if id == uuid.Nil {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "nil id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return uuid.Nil, false
	}
	return id, true
}
