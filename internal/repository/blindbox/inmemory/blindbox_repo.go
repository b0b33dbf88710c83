package inmemory

import (
	"context"
	"sort"
	"sync"

	"studyPaw/internal/models/blindbox"
	repo "studyPaw/internal/repository"

	"github.com/google/uuid"
)

type BlindBoxStorage struct {
	mtx       *sync.RWMutex
	series    map[uuid.UUID]*blindbox.Series
	figures   map[uuid.UUID]*blindbox.Figure
	purchases []*blindbox.Purchase
}

func NewBlindBoxStorage() *BlindBoxStorage {
	return &BlindBoxStorage{
		mtx:     &sync.RWMutex{},
		series:  make(map[uuid.UUID]*blindbox.Series),
		figures: make(map[uuid.UUID]*blindbox.Figure),
	}
}

func (s *BlindBoxStorage) CreateSeries(ctx context.Context, sr *blindbox.Series) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.series[sr.SeriesID] = sr
	return nil
}

func (s *BlindBoxStorage) CreateFigure(ctx context.Context, f *blindbox.Figure) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.figures[f.FigureID] = f
	return nil
}

func (s *BlindBoxStorage) GetSeriesByID(ctx context.Context, id uuid.UUID) (*blindbox.Series, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	sr, ok := s.series[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *sr
	return &copied, nil
}

func (s *BlindBoxStorage) FetchSeries(ctx context.Context) ([]*blindbox.Series, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.sortedSeries(func(*blindbox.Series) bool { return true }), nil
}

// FetchAffordableSeries — серии с ценой не выше points, по возрастанию цены
func (s *BlindBoxStorage) FetchAffordableSeries(ctx context.Context, points int) ([]*blindbox.Series, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.sortedSeries(func(sr *blindbox.Series) bool { return sr.CostPoints <= points }), nil
}

func (s *BlindBoxStorage) FetchFiguresBySeries(ctx context.Context, seriesID uuid.UUID) ([]*blindbox.Figure, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*blindbox.Figure{}
	for _, f := range s.figures {
		if f.SeriesID != seriesID {
			continue
		}
		copied := *f
		res = append(res, &copied)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (s *BlindBoxStorage) CreatePurchase(ctx context.Context, p *blindbox.Purchase) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.purchases = append(s.purchases, p)
	return nil
}

func (s *BlindBoxStorage) FetchUserFigures(ctx context.Context, userID string) ([]*blindbox.Figure, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*blindbox.Figure{}
	for _, p := range s.purchases {
		if p.UserID != userID {
			continue
		}
		if f, ok := s.figures[p.FigureID]; ok {
			copied := *f
			res = append(res, &copied)
		}
	}
	return res, nil
}

func (s *BlindBoxStorage) sortedSeries(keep func(*blindbox.Series) bool) []*blindbox.Series {
	res := []*blindbox.Series{}
	for _, sr := range s.series {
		if !keep(sr) {
			continue
		}
		copied := *sr
		res = append(res, &copied)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CostPoints < res[j].CostPoints })
	return res
}
