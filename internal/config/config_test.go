package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 8080
database:
  driver: mysql
  host: db.internal
  port: 3306
  user: talenta
  password: secret
  name: triggers
  maxOpenConns: 40
  maxIdleConns: 15
minio:
  endpoint: minio.internal:9000
  accessKey: ak
  secretKey: sk
  bucketName: talenta-snapshots
openai:
  apiKey: sk-test
  model: gpt-4o-mini
billing:
  baseURL: http://billing.internal
  timeoutSeconds: 5
modules:
  learning:
    baseURL: http://lxp.internal
    timeoutSeconds: 20
  hiring:
    baseURL: http://ats.internal
auth:
  apiKeys:
    acme: key-acme-1
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 40, cfg.Database.MaxOpenConns)
	assert.Equal(t, 15, cfg.Database.MaxIdleConns)
	assert.Equal(t, "talenta-snapshots", cfg.Minio.BucketName)
	assert.Equal(t, "http://billing.internal", cfg.Billing.BaseURL)
	assert.Equal(t, "http://lxp.internal", cfg.Modules["learning"].BaseURL)
	assert.Equal(t, "key-acme-1", cfg.Auth.APIKeys["acme"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [not: a: mapping"))
	require.Error(t, err)
}

func TestDSNHelpers(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t,
		"talenta:secret@tcp(db.internal:3306)/triggers?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.MySQLDSN())
	assert.Equal(t,
		"host=db.internal port=3306 user=talenta password=secret dbname=triggers sslmode=disable",
		cfg.PostgresDSN())
}

func TestModuleTimeout(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, cfg.ModuleTimeout("learning"))
	// configured without timeoutSeconds -> default
	assert.Equal(t, 10*time.Second, cfg.ModuleTimeout("hiring"))
	assert.Equal(t, 10*time.Second, cfg.ModuleTimeout("performance"))
}
