package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"studyPaw/internal/handlers/dto"
	"studyPaw/internal/logger"
	"studyPaw/internal/models/blindbox"
	"studyPaw/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RewardsHandler struct {
	RewardsService service.RewardsService
}

func NewRewardsHandler(rewardsService service.RewardsService) RewardsHandler {
	return RewardsHandler{
		RewardsService: rewardsService,
	}
}

func (s *RewardsHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	series, err := s.RewardsService.FetchSeries(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Серии получены",
		zap.Int("count", len(series)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("series", series))
}

// PostSeries заводит новую серию вместе с фигурками
func (s *RewardsHandler) PostSeries(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateSeriesRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	figures := make([]*blindbox.Figure, len(request.Figures))
	for i, f := range request.Figures {
		figures[i] = &blindbox.Figure{
			Name:     f.Name,
			Rarity:   blindbox.Rarity(f.Rarity),
			ImageURL: f.ImageURL,
		}
	}

	series, err := s.RewardsService.CreateSeries(r.Context(),
		request.Name, request.Description, request.CostPoints, figures)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Серия создана",
		zap.String("series_id", series.SeriesID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("series", series))
}

// GetAffordable — серии, на которые пользователю хватает очков
func (s *RewardsHandler) GetAffordable(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		responseWithError(w, http.StatusBadRequest, "user_id не может быть пустым")
		return
	}

	series, err := s.RewardsService.AffordableSeries(r.Context(), userID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Доступные серии получены",
		zap.Int("count", len(series)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("series", series))
}

// PostPurchase вскрывает коробку: списывает очки и выдаёт случайную фигурку
func (s *RewardsHandler) PostPurchase(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if request.UserID == "" {
		responseWithError(w, http.StatusBadRequest, "user_id не может быть пустым")
		return
	}

	logger.Info("HTTP: Вызов сервиса покупки коробки")

	result, err := s.RewardsService.Purchase(r.Context(), request.UserID, request.SeriesID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "purchase_blind_box"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Коробка вскрыта",
		zap.String("figure", result.Figure.Name),
		zap.String("rarity", string(result.Figure.Rarity)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("figure", result.Figure),
		toPayload("series", result.Series),
		toPayload("points_spent", result.PointsSpent),
		toPayload("remaining_points", result.RemainingPoints),
	)
}

func (s *RewardsHandler) GetUserFigures(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID := chi.URLParam(r, "id")
	if userID == "" {
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	figures, err := s.RewardsService.UserCollection(r.Context(), userID)
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Коллекция получена",
		zap.Int("count", len(figures)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("figures", figures))
}
