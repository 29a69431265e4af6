package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigDSN(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: 5432, Database: "movie_ratings", SSLMode: "disable"}
	require.Equal(t, "host=localhost port=5432 dbname=movie_ratings sslmode=disable", cfg.DSN())

	cfg.User = "analyst"
	cfg.Password = "pw"
	require.Equal(t, "host=localhost port=5432 dbname=movie_ratings sslmode=disable user=analyst password=pw", cfg.DSN())
}
