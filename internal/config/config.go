package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Reminders  RemindersConfig  `mapstructure:"reminders"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MinConnections int           `mapstructure:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type"` // "postgres" или "inmemory"
}

type RemindersConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	Horizon   time.Duration `mapstructure:"horizon"`
	BatchSize int           `mapstructure:"batch_size"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")

	// переменные окружения вида STUDYPAW_DATABASE_URL перекрывают yml
	v.SetEnvPrefix("STUDYPAW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("repository.type", "inmemory")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("reminders.interval", 5*time.Minute)
	v.SetDefault("reminders.horizon", time.Hour)
	v.SetDefault("reminders.batch_size", 100)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("чтение config.yml: %w", err)
		}
		// без файла живём на дефолтах и окружении
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}

	return &cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
