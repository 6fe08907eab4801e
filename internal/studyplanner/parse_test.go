package studyplanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Parse reads.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"STUDYPLANNER_CONFIG", "PORT", "STORE_BACKEND", "SQLITE_PATH", "POSTGRES_DSN",
		"SURREALDB_URL", "SURREALDB_NS", "SURREALDB_DB", "SURREALDB_USER", "SURREALDB_PASS",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "LOG_LEVEL",
		"FRONTEND_URL", "NODE_ENV", "READ_ONLY", "SESSION_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestParseCommands(t *testing.T) {
	clearEnv(t)

	cmd, config, err := Parse([]string{"run"})
	require.NoError(t, err)
	assert.IsType(t, &RunCommand{}, cmd)
	assert.Equal(t, DefaultConfig(), config)

	cmd, _, err = Parse([]string{"-migrate", "run"})
	require.NoError(t, err)
	assert.True(t, cmd.(*RunCommand).Migrate)

	cmd, _, err = Parse([]string{"migrate"})
	require.NoError(t, err)
	assert.Equal(t, "migrate", cmd.Name())

	_, _, err = Parse(nil)
	assert.ErrorContains(t, err, "subcommand required")

	_, _, err = Parse([]string{"serve"})
	assert.ErrorContains(t, err, "unknown command: serve")

	_, _, err = Parse([]string{"-backend", "mongo", "run"})
	assert.ErrorContains(t, err, "invalid store backend")
}

func TestParseLayering(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "studyplanner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
backend: postgres
postgres_dsn: postgres://file
completion:
  model: file-model
  timeout: 45s
  max_tokens: 2000
allowed_origins:
  - https://planner.example.com
session_ttl: 24h
`), 0o600))

	t.Setenv("POSTGRES_DSN", "postgres://env")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("PORT", "9100")

	_, config, err := Parse([]string{"-config", path, "-port", "9200", "run"})
	require.NoError(t, err)

	assert.Equal(t, "9200", config.ServerPort, "explicit flags win")
	assert.Equal(t, BackendPostgres, config.Backend, "file beats defaults")
	assert.Equal(t, "postgres://env", config.PostgresDSN, "env beats file")
	assert.Equal(t, "sk-test", config.Completion.APIKey)
	assert.Equal(t, "file-model", config.Completion.Model)
	assert.Equal(t, 45*time.Second, config.Completion.Timeout)
	assert.Equal(t, 2000, config.Completion.MaxTokens)
	assert.Equal(t, 24*time.Hour, config.SessionTTL)
	assert.Equal(t, []string{"https://planner.example.com", "https://app.example.com"}, config.AllowedOrigins)
	assert.True(t, config.Production)
}

func TestParseEnvErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("READ_ONLY", "sometimes")
	_, _, err := Parse([]string{"run"})
	assert.ErrorContains(t, err, "READ_ONLY")

	clearEnv(t)
	t.Setenv("SESSION_TTL", "a week")
	_, _, err = Parse([]string{"run"})
	assert.ErrorContains(t, err, "SESSION_TTL")

	clearEnv(t)
	_, _, err = Parse([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "run"})
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestParseFlagOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("READ_ONLY", "true")
	t.Setenv("OPENAI_MODEL", "env-model")

	_, config, err := Parse([]string{"-read-only=false", "-model", "flag-model", "-completion-timeout", "5s", "run"})
	require.NoError(t, err)
	assert.False(t, config.ReadOnly)
	assert.Equal(t, "flag-model", config.Completion.Model)
	assert.Equal(t, 5*time.Second, config.Completion.Timeout)
}
