package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"studyPaw/internal/handlers/dto"
	"studyPaw/internal/logger"
	"studyPaw/internal/service"

	"go.uber.org/zap"
)

type AssignmentHandler struct {
	AssignmentService service.AssignmentService
}

func NewAssignmentHandler(assignmentService service.AssignmentService) AssignmentHandler {
	return AssignmentHandler{
		AssignmentService: assignmentService,
	}
}

func (s *AssignmentHandler) PostAssignment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	logger.Info("HTTP: Вызов сервиса создания задания")

	a, err := s.AssignmentService.CreateAssignment(r.Context(),
		request.CourseID, request.Title, request.DueDate, request.CompletionPoints)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_assignment"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задание создано",
		zap.String("assignment_id", a.AssignmentID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("assignment", a))
}

// GetAssignments — все задания либо задания курса по query-параметру course_id
func (s *AssignmentHandler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	assignments, err := s.AssignmentService.FetchByCourse(r.Context(), r.URL.Query().Get("course_id"))
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задания получены",
		zap.Int("count", len(assignments)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("assignments", assignments))
}

func (s *AssignmentHandler) GetAssignmentByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	a, err := s.AssignmentService.GetAssignmentByID(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задание получено",
		zap.String("assignment_id", a.AssignmentID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("assignment", a))
}

func (s *AssignmentHandler) UpdateAssignmentByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request struct {
		Title            *string    `json:"title,omitempty"`
		DueDate          *time.Time `json:"due_date,omitempty"`
		CompletionPoints *int       `json:"completion_points,omitempty"`
	}

	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	a, err := s.AssignmentService.UpdateAssignment(r.Context(), id, request.Title, request.DueDate, request.CompletionPoints)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_assignment"),
			zap.String("client_addr", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задание обновлено",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("assignment", a))
}

func (s *AssignmentHandler) DeleteAssignmentByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.AssignmentService.DeleteAssignment(r.Context(), id); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "delete_assignment"),
			zap.String("client_addr", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задание удалено",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}
