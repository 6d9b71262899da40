package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("CSRF_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "auth-secret")
	t.Setenv("CSRF_SECRET", "csrf-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "skillforge_session", cfg.SessionCookie)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Duration(0), cfg.AuthLeeway)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsNegativeLeeway(t *testing.T) {
	t.Setenv("AUTH_SECRET", "auth-secret")
	t.Setenv("CSRF_SECRET", "csrf-secret")
	t.Setenv("AUTH_LEEWAY", "-5s")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestIsProduction(t *testing.T) {
	assert.False(t, (*Config)(nil).IsProduction())
	assert.True(t, (&Config{AppEnv: "production"}).IsProduction())
}
