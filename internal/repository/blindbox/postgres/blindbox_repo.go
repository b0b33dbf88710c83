package postgres

import (
	"context"
	"errors"
	"fmt"

	"studyPaw/internal/logger"
	"studyPaw/internal/models/blindbox"
	repo "studyPaw/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) CreateSeries(ctx context.Context, sr *blindbox.Series) error {
	query := `INSERT INTO blind_box_series (series_id, name, description, cost_points)
				VALUES ($1, $2, $3, $4)`

	_, err := s.pool.Exec(ctx, query, sr.SeriesID, sr.Name, sr.Description, sr.CostPoints)
	if err != nil {
		logger.Error("Repository: Не удалось добавить серию", err)
		return fmt.Errorf("добавление серии: %w", err)
	}
	return nil
}

func (s *Storage) CreateFigure(ctx context.Context, f *blindbox.Figure) error {
	query := `INSERT INTO blind_box_figures (figure_id, series_id, name, rarity, image_url)
				VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, query, f.FigureID, f.SeriesID, f.Name, f.Rarity, f.ImageURL)
	if err != nil {
		logger.Error("Repository: Не удалось добавить фигурку", err)
		return fmt.Errorf("добавление фигурки: %w", err)
	}
	return nil
}

func (s *Storage) GetSeriesByID(ctx context.Context, id uuid.UUID) (*blindbox.Series, error) {
	query := `SELECT series_id, name, COALESCE(description, ''), cost_points
				FROM blind_box_series WHERE series_id = $1`

	sr := &blindbox.Series{}
	err := s.pool.QueryRow(ctx, query, id).Scan(&sr.SeriesID, &sr.Name, &sr.Description, &sr.CostPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить серию", err)
		return nil, fmt.Errorf("получение серии: %w", err)
	}
	return sr, nil
}

func (s *Storage) FetchSeries(ctx context.Context) ([]*blindbox.Series, error) {
	return s.fetchSeries(ctx,
		`SELECT series_id, name, COALESCE(description, ''), cost_points
			FROM blind_box_series ORDER BY cost_points`)
}

// FetchAffordableSeries — серии с ценой не выше points, по возрастанию цены
func (s *Storage) FetchAffordableSeries(ctx context.Context, points int) ([]*blindbox.Series, error) {
	return s.fetchSeries(ctx,
		`SELECT series_id, name, COALESCE(description, ''), cost_points
			FROM blind_box_series WHERE cost_points <= $1 ORDER BY cost_points`, points)
}

func (s *Storage) fetchSeries(ctx context.Context, query string, args ...any) ([]*blindbox.Series, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить серии", err)
		return nil, fmt.Errorf("получение серий: %w", err)
	}
	defer rows.Close()

	series := []*blindbox.Series{}
	for rows.Next() {
		sr := &blindbox.Series{}
		if err := rows.Scan(&sr.SeriesID, &sr.Name, &sr.Description, &sr.CostPoints); err != nil {
			logger.Warn("Repository: Ошибка сканирования серии", zap.Error(err))
			continue
		}
		series = append(series, sr)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return series, nil
}

func (s *Storage) FetchFiguresBySeries(ctx context.Context, seriesID uuid.UUID) ([]*blindbox.Figure, error) {
	query := `SELECT figure_id, series_id, name, rarity, COALESCE(image_url, '')
				FROM blind_box_figures WHERE series_id = $1 ORDER BY name`

	rows, err := s.pool.Query(ctx, query, seriesID)
	if err != nil {
		logger.Error("Repository: Не удалось получить фигурки", err)
		return nil, fmt.Errorf("получение фигурок: %w", err)
	}
	defer rows.Close()

	return scanFigures(rows)
}

func (s *Storage) CreatePurchase(ctx context.Context, p *blindbox.Purchase) error {
	query := `INSERT INTO user_blind_boxes (purchase_id, user_id, figure_id, purchased_at)
				VALUES ($1, $2, $3, $4)`

	_, err := s.pool.Exec(ctx, query, p.PurchaseID, p.UserID, p.FigureID, p.PurchasedAt)
	if err != nil {
		logger.Error("Repository: Не удалось записать покупку", err)
		return fmt.Errorf("запись покупки: %w", err)
	}
	return nil
}

func (s *Storage) FetchUserFigures(ctx context.Context, userID string) ([]*blindbox.Figure, error) {
	query := `SELECT f.figure_id, f.series_id, f.name, f.rarity, COALESCE(f.image_url, '')
				FROM user_blind_boxes ub
				JOIN blind_box_figures f ON f.figure_id = ub.figure_id
				WHERE ub.user_id = $1
				ORDER BY ub.purchased_at`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		logger.Error("Repository: Не удалось получить коллекцию", err)
		return nil, fmt.Errorf("получение коллекции: %w", err)
	}
	defer rows.Close()

	return scanFigures(rows)
}

func scanFigures(rows pgx.Rows) ([]*blindbox.Figure, error) {
	figures := []*blindbox.Figure{}
	for rows.Next() {
		f := &blindbox.Figure{}
		if err := rows.Scan(&f.FigureID, &f.SeriesID, &f.Name, &f.Rarity, &f.ImageURL); err != nil {
			logger.Warn("Repository: Ошибка сканирования фигурки", zap.Error(err))
			continue
		}
		figures = append(figures, f)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return figures, nil
}
