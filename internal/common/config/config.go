package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   string `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Auth struct {
		JWTSecret        string `env:"JWT_SECRET,required"`
		AccessTTLMinutes int    `env:"ACCESS_TTL_MINUTES" envDefault:"15"`
		RefreshTTLDays   int    `env:"REFRESH_TTL_DAYS" envDefault:"30"`
	}

	SMTP struct {
		Host     string `env:"SMTP_HOST" envDefault:"localhost"`
		Port     int    `env:"SMTP_PORT" envDefault:"587"`
		User     string `env:"SMTP_USER" envDefault:""`
		Password string `env:"SMTP_PASSWORD" envDefault:""`
		From     string `env:"SMTP_FROM" envDefault:"no-reply@ramp.example"`
	}

	KYC struct {
		ProviderBaseURL string `env:"KYC_PROVIDER_BASE_URL,required"`
		ProviderToken   string `env:"KYC_PROVIDER_TOKEN" envDefault:""`
	}

	Telegram struct {
		// Optional: Telegram Mini App login is enabled only when a bot token is set.
		BotToken string `env:"BOT_TOKEN" envDefault:""`
	}
}

func MustLoad() *Config {
	// .env may be absent; in production variables come from the environment.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
