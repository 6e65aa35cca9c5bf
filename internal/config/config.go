package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"novel-adventure/internal/domain"
	"novel-adventure/pkg/logger"
)

// Config содержит конфигурацию игрового клиента
type Config struct {
	AppEnv string `env:"APP_ENV" env-default:"development" validate:"oneof=development production test"`
	Logger logger.Config

	Services ServicesConfig
	Session  SessionConfig
	View     ViewConfig
	Metrics  MetricsConfig
}

// ServicesConfig содержит адреса сервиса повествования и сервиса изображений
type ServicesConfig struct {
	BaseURL       string `env:"GAME_SERVICE_URL" env-default:"http://localhost:5000" validate:"required,url"`
	NarrativePath string `env:"NARRATIVE_PATH" env-default:"/api/game" validate:"required,startswith=/"`
	ScenePath     string `env:"SCENE_PATH" env-default:"/api/generate-image" validate:"required,startswith=/"`
	// 0 - без таймаута: зависший сервис оставляет ход в ожидании
	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" env-default:"0s" validate:"gte=0"`
}

// SessionConfig содержит стартовые значения сессии
type SessionConfig struct {
	InitialNarrative string `env:"INITIAL_NARRATIVE" env-default:"Welcome to the AI-Powered Interactive Story! Begin your adventure..."`
	PlaceholderScene string `env:"PLACEHOLDER_SCENE" env-default:"/api/placeholder/1200/800" validate:"required"`
}

// ViewConfig содержит настройки локального API для браузерного интерфейса.
// Пустой Addr отключает API.
type ViewConfig struct {
	Addr           string   `env:"VIEW_ADDR" env-default:"" validate:"omitempty,hostname_port"`
	AllowedOrigins []string `env:"VIEW_ALLOWED_ORIGINS" env-default:"http://localhost:3000" env-separator:","`
}

// MetricsConfig содержит настройки отправки метрик в Pushgateway.
// Пустой PushGatewayURL отключает отправку.
type MetricsConfig struct {
	PushGatewayURL string        `env:"PUSHGATEWAY_URL" env-default:"" validate:"omitempty,url"`
	PushInterval   time.Duration `env:"METRICS_PUSH_INTERVAL" env-default:"15s" validate:"gt=0"`
	JobName        string        `env:"METRICS_JOB_NAME" env-default:"novel_client" validate:"required"`
}

// Load загружает конфигурацию из переменных окружения и .env файла.
func Load() (*Config, error) {
	// .env может отсутствовать
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}

	return &cfg, nil
}

// SessionDefaults возвращает стартовые значения для domain.NewSessionState.
func (c *Config) SessionDefaults() domain.SessionDefaults {
	return domain.SessionDefaults{
		InitialNarrative: c.Session.InitialNarrative,
		PlaceholderScene: c.Session.PlaceholderScene,
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) ViewEnabled() bool {
	return c.View.Addr != ""
}

func (c *Config) PushEnabled() bool {
	return c.Metrics.PushGatewayURL != ""
}
