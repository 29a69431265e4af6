package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, SourceCSV, cfg.Dataset.Source)
	require.Equal(t, 1000, cfg.Import.BatchSize)
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  readTimeout: 3s
database:
  host: db.internal
  name: ratings
logging:
  level: debug
dataset:
  source: postgres
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, "ratings", cfg.Database.Database)
	require.Equal(t, "secret", cfg.Database.Password)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, SourcePostgres, cfg.Dataset.Source)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad source", func(c *Config) { c.Dataset.Source = "parquet" }},
		{"csv without path", func(c *Config) { c.Dataset.CSVPath = "" }},
		{"postgres without host", func(c *Config) {
			c.Dataset.Source = SourcePostgres
			c.Database.Host = ""
		}},
		{"short genre list", func(c *Config) { c.Dataset.Genres = []string{"Action"} }},
		{"zero batch", func(c *Config) { c.Import.BatchSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestPostgresConfig(t *testing.T) {
	cfg := defaultConfig()
	pg := cfg.Database.PostgresConfig()
	require.Equal(t, "localhost", pg.Host)
	require.Equal(t, 5432, pg.Port)
	require.Equal(t, "movie_ratings", pg.Database)
	require.Equal(t, 10, pg.MaxOpenConns)
}
