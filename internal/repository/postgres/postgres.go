// Package postgres держит общий пул соединений и миграции схемы,
// конкретные хранилища по сущностям живут в соседних пакетах.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studyPaw/internal/config"
	"studyPaw/internal/logger"
	"studyPaw/internal/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига пула", err)
		return nil, fmt.Errorf("загрузка конфига пула: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnIdleTime = cfg.IdleTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return pool, nil
}

// Migrate применяет встроенные миграции через golang-migrate
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		logger.Error("Repository: Ошибка чтения встроенных миграций", err)
		return fmt.Errorf("чтение миграций: %w", err)
	}

	// драйвер pgx/v5 регистрируется под схемой pgx5
	url := databaseURL
	if strings.HasPrefix(url, "postgres://") {
		url = "pgx5://" + strings.TrimPrefix(url, "postgres://")
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		logger.Error("Repository: Ошибка инициализации миграций", err)
		return fmt.Errorf("инициализация миграций: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Ошибка применения миграций", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Repository: Миграции применены")
	return nil
}
