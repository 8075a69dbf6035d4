// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the container for app configuration.
type Config struct {
	// App
	Env      string `envconfig:"APP_ENV" default:"prod" validate:"oneof=dev prod"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Telegram. Only the bot command needs the token.
	TelegramToken  string        `envconfig:"TELEGRAM_TOKEN"`
	BotWorkers     int           `envconfig:"BOT_WORKERS" default:"8" validate:"gt=0"`
	MessageTimeout time.Duration `envconfig:"MESSAGE_TIMEOUT" default:"3m" validate:"gt=0"`

	// GitHub. The token is optional, rate limits are lower without it.
	GithubToken       string        `envconfig:"GITHUB_TOKEN"`
	GithubGraphQLURL  string        `envconfig:"GITHUB_GRAPHQL_URL" default:"https://api.github.com/graphql" validate:"url"`
	GithubAPIURL      string        `envconfig:"GITHUB_API_URL" default:"https://api.github.com/" validate:"url"`
	GithubTimeout     time.Duration `envconfig:"GITHUB_TIMEOUT" default:"30s" validate:"gt=0"`
	GithubRateLimit   float64       `envconfig:"GITHUB_RATE_LIMIT" default:"10" validate:"gte=0"`
	FanoutConcurrency int           `envconfig:"FANOUT_CONCURRENCY" default:"4" validate:"gt=0"`

	// HTTP
	HTTPAddr      string        `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownGrace time.Duration `envconfig:"SHUTDOWN_GRACE" default:"10s" validate:"gt=0"`
}

// Loader reads .env files, the environment and validates the result.
type Loader struct {
	Files    []string
	Validate *validator.Validate
}

// NewLoader returns a Loader reading ".env" and ".env.$APP_ENV" when present.
func NewLoader() *Loader {
	files := []string{".env"}
	if appEnv := strings.TrimSpace(os.Getenv("APP_ENV")); appEnv != "" {
		files = append(files, ".env."+appEnv)
	}
	return &Loader{Files: files, Validate: validator.New()}
}

// Load returns the validated configuration. Missing .env files are not an error.
func (l *Loader) Load() (Config, error) {
	var cfg Config

	for _, f := range l.Files {
		if !fileExists(f) {
			continue
		}
		// Variables already set in the environment win over the file.
		if err := godotenv.Load(f); err != nil {
			return cfg, fmt.Errorf("dotenv %s: %w", f, err)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("env load: %w", err)
	}
	if err := l.Validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
