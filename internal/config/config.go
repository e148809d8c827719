package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quiz-live"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`

	Postgres    Postgres
	Redis       Redis
	Security    Security
	Game        Game
	Quiz        Quiz
	Leaderboard Leaderboard
	CORS        CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// DSN renders a pgx connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// Redis holds cache, pub/sub and leaderboard configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for verifying caller tokens.
type Security struct {
	JWTSecret string `env:"JWT_SECRET,notEmpty"`
}

// Broadcast modes.
const (
	BroadcastLocal = "local"
	BroadcastRedis = "redis"
)

// Game groups live session timings and fan-out behavior.
type Game struct {
	ShortTick              time.Duration `env:"GAME_SHORT_TICK" envDefault:"1s"`
	LongTick               time.Duration `env:"GAME_LONG_TICK" envDefault:"5s"`
	StartCountdown         int           `env:"GAME_START_COUNTDOWN" envDefault:"5"`
	QuestionStartCountdown int           `env:"GAME_QUESTION_START_COUNTDOWN" envDefault:"3"`
	QuestionCountdown      int           `env:"GAME_QUESTION_COUNTDOWN" envDefault:"11"`
	CleanupInterval        time.Duration `env:"GAME_CLEANUP_INTERVAL" envDefault:"10s"`
	CleanupTimeout         time.Duration `env:"GAME_CLEANUP_TIMEOUT" envDefault:"5s"`
	CodeLength             int           `env:"GAME_CODE_LENGTH" envDefault:"5"`
	BroadcastMode          string        `env:"GAME_BROADCAST_MODE" envDefault:"local"`
	PublishTimeout         time.Duration `env:"GAME_PUBLISH_TIMEOUT" envDefault:"2s"`
	PersistTimeout         time.Duration `env:"GAME_PERSIST_TIMEOUT" envDefault:"10s"`
}

// Quiz governs quiz snapshot caching.
type Quiz struct {
	CacheTTL time.Duration `env:"QUIZ_CACHE_TTL" envDefault:"5m"`
}

// Leaderboard tunes the per-quiz rankings kept in Redis.
type Leaderboard struct {
	TopN      int           `env:"LEADERBOARD_TOP_N" envDefault:"50"`
	KeyPrefix string        `env:"LEADERBOARD_KEY_PREFIX" envDefault:"lb"`
	EntryTTL  time.Duration `env:"LEADERBOARD_ENTRY_TTL" envDefault:"0s"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Game.validate(); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (g Game) validate() error {
	switch g.BroadcastMode {
	case BroadcastLocal, BroadcastRedis:
	default:
		return fmt.Errorf("GAME_BROADCAST_MODE must be %q or %q, got %q", BroadcastLocal, BroadcastRedis, g.BroadcastMode)
	}
	if g.ShortTick <= 0 || g.LongTick <= 0 {
		return fmt.Errorf("game ticks must be positive")
	}
	if g.StartCountdown < 1 || g.QuestionStartCountdown < 1 || g.QuestionCountdown < 1 {
		return fmt.Errorf("game countdowns must be at least 1")
	}
	if g.CodeLength < 1 {
		return fmt.Errorf("GAME_CODE_LENGTH must be at least 1")
	}
	return nil
}
