package bot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: test-token
  run_mode: polling
database:
  host: db.internal
  port: "5432"
  name: shipbot
conversation:
  idle_ttl_minutes: 45
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Telegram.Token)
	// "polling" is accepted as an alias and normalized.
	assert.Equal(t, "longpoll", cfg.Telegram.RunMode)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 45*time.Minute, cfg.Conversation.IdleTTL())
	assert.Equal(t, 5*time.Minute, cfg.Conversation.SweepInterval())
}

func TestLoadConfigRequiresToken(t *testing.T) {
	path := writeConfig(t, "telegram:\n  run_mode: longpoll\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
