package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_ENV", "LOG_LEVEL", "TELEGRAM_TOKEN", "BOT_WORKERS", "MESSAGE_TIMEOUT",
	"GITHUB_TOKEN", "GITHUB_GRAPHQL_URL", "GITHUB_API_URL", "GITHUB_TIMEOUT",
	"GITHUB_RATE_LIMIT", "FANOUT_CONCURRENCY",
	"HTTP_ADDR", "SHUTDOWN_GRACE",
}

// newTestLoader returns a loader over the given files with a clean environment.
func newTestLoader(t *testing.T, files ...string) *Loader {
	t.Helper()
	for _, k := range configKeys {
		if _, ok := os.LookupEnv(k); ok {
			t.Setenv(k, "")
			require.NoError(t, os.Unsetenv(k))
		}
	}
	return &Loader{Files: files, Validate: validator.New()}
}

func TestLoader_Defaults(t *testing.T) {
	cfg, err := newTestLoader(t).Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://api.github.com/graphql", cfg.GithubGraphQLURL)
	assert.Equal(t, "https://api.github.com/", cfg.GithubAPIURL)
	assert.Equal(t, 30*time.Second, cfg.GithubTimeout)
	assert.Equal(t, 10.0, cfg.GithubRateLimit)
	assert.Equal(t, 4, cfg.FanoutConcurrency)
	assert.Equal(t, 8, cfg.BotWorkers)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoader_Environment(t *testing.T) {
	loader := newTestLoader(t)
	t.Setenv("GITHUB_TOKEN", "ghp_env")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("GITHUB_TIMEOUT", "5s")
	t.Setenv("FANOUT_CONCURRENCY", "1")

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "ghp_env", cfg.GithubToken)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, 5*time.Second, cfg.GithubTimeout)
	assert.Equal(t, 1, cfg.FanoutConcurrency)
}

func TestLoader_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GITHUB_TOKEN=from_file\nLOG_LEVEL=debug\n"), 0o600))
	loader := newTestLoader(t, path)
	t.Setenv("GITHUB_TOKEN", "from_env")
	// Register LOG_LEVEL for cleanup; godotenv sets it from the file.
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.GithubToken)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoader_Validation(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown log level", key: "LOG_LEVEL", value: "loud"},
		{name: "zero timeout", key: "GITHUB_TIMEOUT", value: "0s"},
		{name: "negative rate", key: "GITHUB_RATE_LIMIT", value: "-1"},
		{name: "zero concurrency", key: "FANOUT_CONCURRENCY", value: "0"},
		{name: "bad url", key: "GITHUB_API_URL", value: "not a url"},
		{name: "unknown env", key: "APP_ENV", value: "staging"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			loader := newTestLoader(t)
			t.Setenv(tc.key, tc.value)
			_, err := loader.Load()
			assert.Error(t, err)
		})
	}
}
