package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"studyPaw/internal/handlers/dto"
	"studyPaw/internal/logger"
	"studyPaw/internal/models/course"
	"studyPaw/internal/service"

	"go.uber.org/zap"
)

type CourseHandler struct {
	CourseService service.CourseService
}

func NewCourseHandler(courseService service.CourseService) CourseHandler {
	return CourseHandler{
		CourseService: courseService,
	}
}

func (s *CourseHandler) PostCourse(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	logger.Info("HTTP: Вызов сервиса создания курса")

	c, err := s.CourseService.CreateCourse(r.Context(), &course.Course{
		CourseID:       request.CourseID,
		UserID:         request.UserID,
		CourseName:     request.CourseName,
		CourseCode:     request.CourseCode,
		CanvasCourseID: request.CanvasCourseID,
		Term:           request.Term,
		Color:          request.Color,
	})
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_course"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Курс создан",
		zap.String("course_id", c.CourseID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("course", c))
}

// GetCourses — все курсы либо курсы пользователя по query-параметру user_id
func (s *CourseHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	courses, err := s.CourseService.FetchByUser(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Курсы получены",
		zap.Int("count", len(courses)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("courses", courses))
}
