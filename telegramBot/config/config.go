package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type BotConfig struct {
	TelegramToken  string        `env:"TELEGRAM_TOKEN" env-required:"true"`
	APIBaseURL     string        `env:"API_BASE_URL" env-default:"http://api:8080"`
	LogLevel       string        `env:"LOG_LEVEL" env-default:"INFO"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`
	Debug          bool          `env:"TELEGRAM_DEBUG" env-default:"false"`
}

func MustLoad() BotConfig {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read bot config: %s", err)
	}
	return cfg
}

func Load() (BotConfig, error) {
	var cfg BotConfig
	err := cleanenv.ReadEnv(&cfg)
	return cfg, err
}
