package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

// chdir moves into a fresh directory so no stray .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "collection.db", cfg.DB.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t)
	t.Setenv("COLLECTION_DB_DRIVER", "postgres")
	t.Setenv("COLLECTION_DB_DSN", "host=localhost dbname=app")
	t.Setenv("COLLECTION_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "host=localhost dbname=app", cfg.DB.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("COLLECTION_DB_DSN=from-dotenv.db\nCOLLECTION_LOG_FORMAT=json\n"), 0o600))
	t.Setenv("COLLECTION_LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.db", cfg.DB.DSN)
	// The process environment wins over .env.
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "db.dsn", envKey("COLLECTION_DB_DSN"))
	assert.Equal(t, "log.level", envKey("collection_log_level"))
}
