package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"menucart/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := config.LoadServer()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "", cfg.RabbitMQURL)
}

func TestLoadServerFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_DSN", "host=db user=menucart")
	t.Setenv("RESTAURANT_NAME", "Chez Go")

	cfg, err := config.LoadServer()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "host=db user=menucart", cfg.DatabaseDSN)
	assert.Equal(t, "Chez Go", cfg.RestaurantName)
}

func TestLoadServerRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "oracle")
	_, err := config.LoadServer()
	assert.ErrorContains(t, err, "oracle")
}

func TestLoadClientFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menucart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_url: http://kitchen:8080/api
store: Redis
timeout: 3s
poll_interval: 5s
`), 0o600))

	v, err := config.ClientViper(path)
	require.NoError(t, err)
	cfg, err := config.LoadClient(v)
	require.NoError(t, err)
	assert.Equal(t, "http://kitchen:8080/api", cfg.APIURL)
	assert.Equal(t, "redis", cfg.Store)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, "menucart", cfg.RedisKeys)
}

func TestLoadClientEnvOverridesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MENUCART_STORE", "memory")

	v, err := config.ClientViper("")
	require.NoError(t, err)
	cfg, err := config.LoadClient(v)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL)
}

func TestLoadClientRejectsUnknownStore(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MENUCART_STORE", "floppy")

	v, err := config.ClientViper("")
	require.NoError(t, err)
	_, err = config.LoadClient(v)
	assert.ErrorContains(t, err, "floppy")
}

func TestClientViperMissingFile(t *testing.T) {
	_, err := config.ClientViper(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := config.NewLogger(&buf, "json", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
