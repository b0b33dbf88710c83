package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"studyPaw/internal/handlers/dto"
	"studyPaw/internal/logger"
	"studyPaw/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	UserService service.UserService
}

func NewUserHandler(userService service.UserService) UserHandler {
	return UserHandler{
		UserService: userService,
	}
}

func (s *UserHandler) PostUser(w http.ResponseWriter, r *http.Request) {
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

	var request dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	logger.Info("HTTP: Вызов сервиса создания пользователя")

	u, err := s.UserService.CreateUser(r.Context(), request.UserID,
		service.WithCanvasUsername(request.CanvasUsername),
		service.WithCanvasDomain(request.CanvasDomain),
		service.WithProfilePicture(request.ProfilePicture),
	)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_user"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Пользователь создан",
		zap.String("user_id", u.UserID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("user", u))
}

// GetUsers — список всех либо один по query-параметру user_id
func (s *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if userID := r.URL.Query().Get("user_id"); userID != "" {
		u, err := s.UserService.GetUserByID(r.Context(), userID)
		if err != nil {
			if handleBusinessError(w, err) {
				return
			}
			logger.Error("HTTP: Ошибка Service", err)
			responseWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logger.Info("HTTP_OUT: Пользователь получен",
			zap.String("user_id", u.UserID),
			zap.Duration("ms", time.Since(start)),
			zap.Int("http_status", http.StatusOK))

		responseWithJSON(w, http.StatusOK, toPayload("user", u))
		return
	}

	users, err := s.UserService.FetchUsers(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Пользователи получены",
		zap.Int("count", len(users)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("users", users))
}

func (s *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID := chi.URLParam(r, "id")
	if userID == "" {
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	u, err := s.UserService.GetUserByID(r.Context(), userID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Пользователь получен",
		zap.String("user_id", u.UserID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("user", u))
}

func (s *UserHandler) DeleteUserByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID := chi.URLParam(r, "id")
	if userID == "" {
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	logger.Info("HTTP: Обращение к сервису для удаления пользователя")

	if err := s.UserService.DeleteUser(r.Context(), userID); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "delete_user"),
			zap.String("client_addr", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Пользователь удалён",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

// GetLevelProgress — позиция пользователя внутри уровня для прогресс-бара
func (s *UserHandler) GetLevelProgress(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID := chi.URLParam(r, "id")
	if userID == "" {
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	progress, err := s.UserService.LevelProgress(r.Context(), userID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Прогресс уровня получен",
		zap.String("user_id", userID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("level", progress))
}
