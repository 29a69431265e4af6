package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"movie-ratings/pkg/database"
	"movie-ratings/pkg/logging"
)

// Dataset sources.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

const defaultConfigPath = "configs/config.yaml"

// Config aggregates runtime configuration for the server and the tools.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Import   ImportConfig   `yaml:"import"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// DatabaseConfig holds PostgreSQL connection and pool settings.
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"name"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
	ConnMaxIdleTime time.Duration `yaml:"connMaxIdleTime"`
}

// LoggingConfig selects the minimum log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatasetConfig tells the server where rating records come from.
type DatasetConfig struct {
	Source  string `yaml:"source"`
	CSVPath string `yaml:"csvPath"`
	// Genres overrides the genre flag column names. Empty means the
	// default thirteen.
	Genres []string `yaml:"genres"`
}

// ImportConfig controls the CSV to PostgreSQL importer.
type ImportConfig struct {
	BatchSize int `yaml:"batchSize"`
}

// LoadConfig reads configuration from $CONFIG_PATH, or configs/config.yaml
// when present, then applies environment overrides.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(defaultConfigPath); err == nil {
		if err := hydrateFromFile(cfg, defaultConfigPath); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = parsed
		}
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = parsed
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Database = v
	}
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DATASET_SOURCE"); v != "" {
		cfg.Dataset.Source = strings.ToLower(v)
	}
	if v := os.Getenv("DATASET_CSV_PATH"); v != "" {
		cfg.Dataset.CSVPath = v
	}
	if v := os.Getenv("IMPORT_BATCH_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Import.BatchSize = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Database:        "movie_ratings",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Dataset: DatasetConfig{
			Source:  SourceCSV,
			CSVPath: "data/movie_ratings.csv",
		},
		Import: ImportConfig{
			BatchSize: 1000,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	switch c.Dataset.Source {
	case SourceCSV:
		if c.Dataset.CSVPath == "" {
			return errors.New("dataset.csvPath cannot be empty for csv source")
		}
	case SourcePostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("dataset.source must be %q or %q, got %q", SourceCSV, SourcePostgres, c.Dataset.Source)
	}

	if n := len(c.Dataset.Genres); n != 0 && n != 13 {
		return fmt.Errorf("dataset.genres must list 13 columns, got %d", n)
	}
	if c.Import.BatchSize <= 0 {
		return errors.New("import.batchSize must be positive")
	}
	return nil
}

// ValidateDatabase checks only the database section. Used by tools that
// always talk to PostgreSQL regardless of the dataset source.
func (c *Config) ValidateDatabase() error {
	return c.Database.validate()
}

func (d DatabaseConfig) validate() error {
	if d.Host == "" {
		return errors.New("database.host cannot be empty")
	}
	if d.Port <= 0 {
		return errors.New("database.port must be positive")
	}
	if d.Database == "" {
		return errors.New("database.name cannot be empty")
	}
	if d.MaxOpenConns <= 0 {
		return errors.New("database.maxOpenConns must be positive")
	}
	return nil
}

// PostgresConfig converts the database section for pkg/database.
func (d DatabaseConfig) PostgresConfig() *database.Config {
	return &database.Config{
		Host:            d.Host,
		Port:            d.Port,
		User:            d.User,
		Password:        d.Password,
		Database:        d.Database,
		SSLMode:         d.SSLMode,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
	}
}
