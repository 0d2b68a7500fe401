package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 20, cfg.Server.MaxUploadMB)
	assert.Equal(t, "App_Data/price-profiles", cfg.Store.Dir)
	assert.Equal(t, "memory", cfg.Sequence.Backend)
	assert.Equal(t, 48*time.Hour, cfg.Sequence.TTL)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, "dd/mm/yyyy", cfg.Transform.DateFormat)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
sequence:
  backend: redis
  ttl: 72h
  redis:
    addr: redis:6379
    db: 2
store:
  dir: /var/lib/xloffer
`)
	t.Setenv("XLOFFER_SERVER_ADDR", ":9090")
	t.Setenv("XLOFFER_BATCH_CONCURRENCY", "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "redis", cfg.Sequence.Backend)
	assert.Equal(t, 72*time.Hour, cfg.Sequence.TTL)
	assert.Equal(t, "redis:6379", cfg.Sequence.Redis.Addr)
	assert.Equal(t, 2, cfg.Sequence.Redis.DB)
	assert.Equal(t, "/var/lib/xloffer", cfg.Store.Dir)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("XLOFFER_LOG_LEVEL=warn\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("XLOFFER_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, "sequence:\n  backend: etcd\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequence.backend")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{MaxUploadMB: 1},
			Store:    StoreConfig{Dir: "d"},
			Sequence: SequenceConfig{Backend: "memory"},
			Batch:    BatchConfig{Concurrency: 1},
		}
	}
	assert.NoError(t, base().Validate())

	c := base()
	c.Sequence.Backend = "redis"
	assert.Error(t, c.Validate())

	c = base()
	c.Batch.Concurrency = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Store.Dir = ""
	assert.Error(t, c.Validate())
}
