package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Address string        `yaml:"address" env:"HTTP_SERVER_ADDRESS" env-default:":8080"`
	Timeout time.Duration `yaml:"timeout" env:"HTTP_SERVER_TIMEOUT" env-default:"30s"`
}

type Catalog struct {
	URL       string        `yaml:"url" env:"CATALOG_URL" env-default:"https://ranobedb.org/api/v0"`
	ImagesURL string        `yaml:"images_url" env:"IMAGES_URL" env-default:"https://images.ranobedb.org/"`
	Timeout   time.Duration `yaml:"timeout" env:"CATALOG_TIMEOUT" env-default:"10s"`
	RPS       int           `yaml:"rps" env:"CATALOG_RPS" env-default:"0"`
}

type Search struct {
	Concurrency int           `yaml:"concurrency" env:"SEARCH_CONCURRENCY" env-default:"50"`
	Timeout     time.Duration `yaml:"timeout" env:"SEARCH_TIMEOUT" env-default:"25s"`
}

type Config struct {
	LogLevel       string     `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	HTTPServer     HTTPServer `yaml:"http_server"`
	Catalog        Catalog    `yaml:"catalog"`
	Search         Search     `yaml:"search"`
	APIConcurrency int        `yaml:"api_concurrency" env:"API_CONCURRENCY" env-default:"0"`
	APIRate        int        `yaml:"api_rate" env:"API_RATE" env-default:"0"`
	NatsAddress    string     `yaml:"nats_address" env:"NATS_ADDRESS"`
}

func MustLoad(configPath string) Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}
	return cfg
}

// Load reads the YAML file when it exists; environment variables override it.
func Load(configPath string) (Config, error) {
	var cfg Config
	if configPath == "" {
		err := cleanenv.ReadEnv(&cfg)
		return cfg, err
	}
	err := cleanenv.ReadConfig(configPath, &cfg)
	return cfg, err
}
