package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "8080", cfg.ServerPort)
	require.Equal(t, "localhost", cfg.DBHost)
	require.Equal(t, "disable", cfg.DBSSLMode)
	require.Equal(t, 3, cfg.ChatRetryAttempts)
	require.Equal(t, time.Second, cfg.ChatRetryBaseDelay)
	require.Equal(t, 30*time.Second, cfg.ChatRetryMaxDelay)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CHAT_RETRY_ATTEMPTS", "5")
	t.Setenv("CHAT_RETRY_BASE_DELAY", "250ms")

	cfg := Load()
	require.Equal(t, "9090", cfg.ServerPort)
	require.Equal(t, 5, cfg.ChatRetryAttempts)
	require.Equal(t, 250*time.Millisecond, cfg.ChatRetryBaseDelay)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CHAT_RETRY_ATTEMPTS", "lots")
	t.Setenv("CHAT_RETRY_BASE_DELAY", "soon")

	cfg := Load()
	require.Equal(t, 3, cfg.ChatRetryAttempts)
	require.Equal(t, time.Second, cfg.ChatRetryBaseDelay)
}

func TestLoad_PasswordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_password")
	require.NoError(t, os.WriteFile(path, []byte("s3cret\n"), 0o600))

	t.Setenv("DB_PASSWORD", "ignored")
	t.Setenv("DB_PASSWORD_FILE", path)

	cfg := Load()
	require.Equal(t, "s3cret", cfg.DBPassword)
}
