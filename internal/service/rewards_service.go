package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"studyPaw/internal/logger"
	"studyPaw/internal/models/blindbox"
	rep "studyPaw/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// веса редкостей при вскрытии коробки
var rarityWeights = map[blindbox.Rarity]int{
	blindbox.RarityCommon: 70,
	blindbox.RarityRare:   25,
	blindbox.RaritySecret: 5,
}

type RewardsService struct {
	boxes BlindBoxRepository
	users UserRepository
	rnd   *rand.Rand
}

func NewRewardsService(boxes BlindBoxRepository, users UserRepository) RewardsService {
	return RewardsService{
		boxes: boxes,
		users: users,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// PurchaseResult — что выпало из коробки и сколько очков осталось
type PurchaseResult struct {
	Figure          *blindbox.Figure `json:"figure"`
	Series          *blindbox.Series `json:"series"`
	PointsSpent     int              `json:"points_spent"`
	RemainingPoints int              `json:"remaining_points"`
}

// CreateSeries заводит серию вместе с её фигурками
func (s *RewardsService) CreateSeries(ctx context.Context, name, description string, costPoints int, figures []*blindbox.Figure) (*blindbox.Series, error) {
	if name == "" {
		return nil, NewValidationError("name", "название серии не может быть пустым")
	}
	if costPoints <= 0 {
		return nil, NewValidationError("cost_points", "стоимость серии должна быть положительной")
	}

	series := &blindbox.Series{
		SeriesID:    uuid.New(),
		Name:        name,
		Description: description,
		CostPoints:  costPoints,
	}
	if err := s.boxes.CreateSeries(ctx, series); err != nil {
		return nil, fmt.Errorf("создание серии: %w", err)
	}

	for _, f := range figures {
		f.FigureID = uuid.New()
		f.SeriesID = series.SeriesID
		if f.Rarity == "" {
			f.Rarity = blindbox.RarityCommon
		}
		if err := s.boxes.CreateFigure(ctx, f); err != nil {
			return nil, fmt.Errorf("создание фигурки: %w", err)
		}
	}

	logger.Info("Service: Серия создана",
		zap.String("series_id", series.SeriesID.String()),
		zap.String("name", series.Name),
		zap.Int("figures", len(figures)))

	return series, nil
}

func (s *RewardsService) FetchSeries(ctx context.Context) ([]*blindbox.Series, error) {
	series, err := s.boxes.FetchSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение серий: %w", err)
	}
	return series, nil
}

// AffordableSeries — серии, на которые пользователю хватает очков
func (s *RewardsService) AffordableSeries(ctx context.Context, userID string) ([]*blindbox.Series, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("пользователь", userID)
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	series, err := s.boxes.FetchAffordableSeries(ctx, u.TotalPoints)
	if err != nil {
		return nil, fmt.Errorf("получение серий: %w", err)
	}
	return series, nil
}

// Purchase вскрывает коробку: списывает очки и выдаёт случайную фигурку
// серии. Если seriesID не задан, берётся самая дешёвая доступная серия.
func (s *RewardsService) Purchase(ctx context.Context, userID string, seriesID *uuid.UUID) (*PurchaseResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("пользователь", userID)
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	var series *blindbox.Series
	if seriesID != nil {
		series, err = s.boxes.GetSeriesByID(ctx, *seriesID)
		if err != nil {
			if errors.Is(err, rep.ErrNotFound) {
				return nil, NewNotFound("серия", seriesID.String())
			}
			return nil, fmt.Errorf("получение серии: %w", err)
		}
		if u.TotalPoints < series.CostPoints {
			return nil, NewInsufficientPoints(u.TotalPoints, series.CostPoints)
		}
	} else {
		affordable, err := s.boxes.FetchAffordableSeries(ctx, u.TotalPoints)
		if err != nil {
			return nil, fmt.Errorf("получение серий: %w", err)
		}
		if len(affordable) == 0 {
			return nil, NewBusinessError(CodeNoAffordableSeries,
				"нет серий, доступных за текущие очки",
				ToDetail("total_points", u.TotalPoints))
		}
		series = affordable[0]
	}

	figures, err := s.boxes.FetchFiguresBySeries(ctx, series.SeriesID)
	if err != nil {
		return nil, fmt.Errorf("получение фигурок: %w", err)
	}
	if len(figures) == 0 {
		return nil, NewBusinessError(CodeEmptySeries,
			fmt.Sprintf("в серии '%s' нет фигурок", series.Name),
			ToDetail("series_id", series.SeriesID.String()))
	}

	figure := s.drawFigure(figures)

	if err := s.users.UpdatePoints(ctx, userID, -series.CostPoints); err != nil {
		return nil, fmt.Errorf("списание очков: %w", err)
	}

	purchase := &blindbox.Purchase{
		PurchaseID:  uuid.New(),
		UserID:      userID,
		FigureID:    figure.FigureID,
		PurchasedAt: time.Now(),
	}
	if err := s.boxes.CreatePurchase(ctx, purchase); err != nil {
		// очки уже списаны, возвращаем их обратно
		if refundErr := s.users.UpdatePoints(ctx, userID, series.CostPoints); refundErr != nil {
			logger.Error("Service: Не удалось вернуть очки", refundErr, zap.String("user_id", userID))
		}
		return nil, fmt.Errorf("запись покупки: %w", err)
	}

	logger.Info("Service: Коробка вскрыта",
		zap.String("user_id", userID),
		zap.String("figure", figure.Name),
		zap.String("rarity", string(figure.Rarity)))

	return &PurchaseResult{
		Figure:          figure,
		Series:          series,
		PointsSpent:     series.CostPoints,
		RemainingPoints: u.TotalPoints - series.CostPoints,
	}, nil
}

func (s *RewardsService) UserCollection(ctx context.Context, userID string) ([]*blindbox.Figure, error) {
	figures, err := s.boxes.FetchUserFigures(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("получение коллекции: %w", err)
	}
	return figures, nil
}

// drawFigure выбирает фигурку с учётом весов редкостей. Если в серии нет
// фигурок какой-то редкости, её вес просто не участвует в розыгрыше.
func (s *RewardsService) drawFigure(figures []*blindbox.Figure) *blindbox.Figure {
	total := 0
	for _, f := range figures {
		total += weightOf(f.Rarity)
	}
	if total == 0 {
		return figures[s.rnd.Intn(len(figures))]
	}

	roll := s.rnd.Intn(total)
	for _, f := range figures {
		roll -= weightOf(f.Rarity)
		if roll < 0 {
			return f
		}
	}
	return figures[len(figures)-1]
}

func weightOf(r blindbox.Rarity) int {
	if w, ok := rarityWeights[r]; ok {
		return w
	}
	return 1
}
