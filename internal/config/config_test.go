package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
service:
  name: payment
  environment: test
  yuno:
    base_url: https://api.sandbox.y.uno/v1
    public_api_key: pk_test
    private_secret_key: sk_test
    webhook_secret: whsec_test
    account_id: acc_test
  rate_limit:
    enabled: true
    limit: 30
    window: 1m
  webhook:
    retry_interval: 45s
    retry_batch_size: 25

database:
  host: localhost
  port: 5432
  name: payment
  user: payment
  password: file_password
  conn_max_lifetime: 30m

redis:
  addr: localhost:6379

server:
  http:
    host: 127.0.0.1
    port: 8080
    shutdown_timeout: 10s

log:
  level: debug
  format: console
  output: stdout

jwt:
  secret: file_jwt_secret
`

func writeTestConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "payment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeTestConfig(t, testConfigYAML))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "payment", cfg.Service.Name)
	assert.Equal(t, "acc_test", cfg.Service.Yuno.AccountID)
	assert.Equal(t, time.Minute, cfg.Service.RateLimit.Window.Std())
	assert.Equal(t, 45*time.Second, cfg.Service.Webhook.RetryInterval.Std())
	assert.Equal(t, 25, cfg.Service.Webhook.RetryBatchSize)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime.Std())
	assert.Equal(t, 10*time.Second, cfg.Server.HTTP.ShutdownTimeout.Std())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeTestConfig(t, testConfigYAML))
	t.Setenv("YUNO_WEBHOOK_SECRET", "whsec_from_env")
	t.Setenv("JWT_SECRET", "jwt_from_env")
	t.Setenv("DB_PASSWORD", "db_from_env")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "whsec_from_env", cfg.Service.Yuno.WebhookSecret)
	assert.Equal(t, "jwt_from_env", cfg.JWT.Secret)
	assert.Equal(t, "db_from_env", cfg.Database.Password)
	assert.Equal(t, "pk_test", cfg.Service.Yuno.PublicAPIKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeTestConfig(t, "server:\n  http:\n    shutdown_timeout: soon\n"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, Name: "payment", User: "app", Password: "secret"}

	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=payment sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}
