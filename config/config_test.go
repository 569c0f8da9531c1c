package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
}

func TestLoadConfigMissingSecret(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "platefeed",
		DBPassword: "secret",
		DBName:     "platefeed",
		DBSSLMode:  "disable",
	}
	assert.Equal(t,
		"host=db port=5432 user=platefeed password=secret dbname=platefeed sslmode=disable",
		cfg.DSN())
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())

	t.Setenv("ENV", "bogus")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
