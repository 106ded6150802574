package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию для сервиса генерации синтетических пользователей.
type Config struct {
	// HTTP server
	HTTPPort string `envconfig:"HTTP_PORT" default:"8086"`

	// Logging
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// LLM providers. A provider is considered configured when its credential
	// (or endpoint, for Ollama) is present.
	PrimaryProvider string `envconfig:"LLM_PRIMARY_PROVIDER" default:"openai"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel  string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	AnthropicAPIKey  string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel   string `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-20250514"`
	AnthropicBaseURL string `envconfig:"ANTHROPIC_BASE_URL" default:"https://api.anthropic.com/v1/messages"`

	OllamaBaseURL string `envconfig:"OLLAMA_BASE_URL"`
	OllamaModel   string `envconfig:"OLLAMA_MODEL" default:"llama3.1"`

	AITimeout        time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	AIMaxAttempts    int           `envconfig:"AI_MAX_ATTEMPTS" default:"3"`
	AIBaseRetryDelay time.Duration `envconfig:"AI_BASE_RETRY_DELAY" default:"1s"`

	// Image generation (DALL-E). Enabled when OpenAIAPIKey is set.
	DalleModel          string        `envconfig:"DALLE_MODEL" default:"dall-e-3"`
	ImageSavePath       string        `envconfig:"IMAGE_SAVE_PATH" default:"./uploads"`
	ImagePublicBaseURL  string        `envconfig:"IMAGE_PUBLIC_BASE_URL" default:"/uploads"`
	ImageDownloadTimeout time.Duration `envconfig:"IMAGE_DOWNLOAD_TIMEOUT" default:"60s"`
	// Pause between batch items while image generation is on (DALL-E allows
	// roughly 5 images/min).
	ImagePacingInterval time.Duration `envconfig:"IMAGE_PACING_INTERVAL" default:"15s"`

	// Synthetic account settings
	SyntheticPassword string `envconfig:"SYNTHETIC_USER_PASSWORD" default:"SyntheticUser2026!"`
	SyntheticDomain   string `envconfig:"SYNTHETIC_EMAIL_DOMAIN" default:"synthetic.aurora.local"`
	PostsPerUser      int    `envconfig:"POSTS_PER_USER" default:"10"`
	MinBatchSize      int    `envconfig:"MIN_BATCH_SIZE" default:"1"`
	MaxBatchSize      int    `envconfig:"MAX_BATCH_SIZE" default:"50"`

	// Настройки PostgreSQL
	DBHost        string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" default:"postgres"`
	DBPassword    string        `envconfig:"DB_PASSWORD"`
	DBName        string        `envconfig:"DB_NAME" default:"aurora_db"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`

	// RabbitMQ progress notifications (optional; disabled when URL is empty)
	RabbitMQURL       string `envconfig:"RABBITMQ_URL"`
	ProgressQueueName string `envconfig:"PROGRESS_QUEUE" default:"synthetic_user_progress"`
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	if cfg.MinBatchSize < 1 {
		cfg.MinBatchSize = 1
	}
	if cfg.MaxBatchSize < cfg.MinBatchSize {
		return nil, fmt.Errorf("MAX_BATCH_SIZE (%d) must be >= MIN_BATCH_SIZE (%d)", cfg.MaxBatchSize, cfg.MinBatchSize)
	}
	return &cfg, nil
}
