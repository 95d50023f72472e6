package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/schedly")
	t.Setenv("JWT_HMAC_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("MIGRATIONS_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.False(t, cfg.GoogleConfigured())
}

func TestLoad_RequiredFields(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_HMAC_SECRET", "test-secret")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/schedly")
	t.Setenv("JWT_HMAC_SECRET", "")
	_, err = Load()
	assert.Error(t, err)
}

func TestGoogleConfigured(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/schedly")
	t.Setenv("JWT_HMAC_SECRET", "test-secret")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "http://localhost:8080/oauth2callback")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.GoogleConfigured())
}
