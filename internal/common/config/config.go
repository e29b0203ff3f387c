package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug     bool   `env:"DEBUG" envDefault:"false"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	Server struct {
		Addr           string   `env:"HTTP_ADDR" envDefault:":8080"`
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	}

	Redis struct {
		Addr         string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password     string        `env:"REDIS_PASSWORD" envDefault:""`
		DB           int           `env:"REDIS_DB" envDefault:"0"`
		PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"20"`
		DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
		ConnectTries uint          `env:"REDIS_CONNECT_TRIES" envDefault:"5"`
	}

	Telegram struct {
		BotToken       string        `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`
		AnnounceChatID int64         `env:"TELEGRAM_ANNOUNCE_CHAT_ID"`
		InitDataTTL    time.Duration `env:"INIT_DATA_TTL" envDefault:"24h"`
		WebAppBaseURL  string        `env:"WEBAPP_BASE_URL" envDefault:""`
		AdminIDs       []int64       `env:"ADMIN_IDS" envSeparator:","`
	}

	Giveaway struct {
		TickInterval       time.Duration `env:"GIVEAWAY_TICK_INTERVAL" envDefault:"60s"`
		MaxConcurrentEnds  int           `env:"GIVEAWAY_MAX_CONCURRENT_ENDS" envDefault:"10"`
		RetentionPeriod    time.Duration `env:"RETENTION_PERIOD" envDefault:"720h"`
		RetentionInterval  time.Duration `env:"RETENTION_INTERVAL" envDefault:"6h"`
		MemberEventsStream string        `env:"MEMBER_EVENTS_STREAM" envDefault:"bot:events"`
	}

	Persistence struct {
		MaxRetries     uint          `env:"PERSIST_MAX_RETRIES" envDefault:"5"`
		InitialBackoff time.Duration `env:"PERSIST_INITIAL_BACKOFF" envDefault:"200ms"`
		MaxBackoff     time.Duration `env:"PERSIST_MAX_BACKOFF" envDefault:"5s"`
	}
}

// Load reads the optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Giveaway.TickInterval <= 0 {
		return fmt.Errorf("invalid GIVEAWAY_TICK_INTERVAL: %s", c.Giveaway.TickInterval)
	}
	if c.Giveaway.MaxConcurrentEnds <= 0 {
		return fmt.Errorf("invalid GIVEAWAY_MAX_CONCURRENT_ENDS: %d", c.Giveaway.MaxConcurrentEnds)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid LOG_FORMAT: %q", c.LogFormat)
	}
	if c.Persistence.MaxRetries == 0 {
		return fmt.Errorf("invalid PERSIST_MAX_RETRIES: must be > 0")
	}
	return nil
}

// IsAdmin reports whether userID may operate giveaways.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Telegram.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
