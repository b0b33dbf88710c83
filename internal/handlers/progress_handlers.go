package handlers

import (
	"net/http"
	"time"

	"studyPaw/internal/logger"
	"studyPaw/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProgressHandler struct {
	ProgressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) ProgressHandler {
	return ProgressHandler{
		ProgressService: progressService,
	}
}

func (s *ProgressHandler) GetAssignmentProgress(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	progress, err := s.ProgressService.AssignmentProgress(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Прогресс задания получен",
		zap.String("assignment_id", id.String()),
		zap.Int("percent", progress.PercentComplete),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("progress", progress))
}

func (s *ProgressHandler) GetCourseProgress(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	courseID := chi.URLParam(r, "id")
	if courseID == "" {
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	progress, err := s.ProgressService.CourseProgress(r.Context(), courseID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Прогресс курса получен",
		zap.String("course_id", courseID),
		zap.Int("percent", progress.OverallPercent),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("progress", progress))
}

// GetDashboard — сводка для главного экрана: очки, уровень, счётчики вкладок
func (s *ProgressHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		responseWithError(w, http.StatusBadRequest, "user_id не может быть пустым")
		return
	}

	dashboard, err := s.ProgressService.Dashboard(r.Context(), userID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Сводка получена",
		zap.String("user_id", userID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("dashboard", dashboard))
}
