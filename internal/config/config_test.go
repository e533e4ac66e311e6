package config_test

import (
	"testing"

	"github.com/Kyz7/wip/internal/config"
	"github.com/stretchr/testify/assert"
)

func validConfig() *config.Config {
	return &config.Config{
		AppEnv:                 "development",
		AccessTokenSecret:      "access",
		RefreshTokenSecret:     "refresh",
		AccessTokenExpMinutes:  60,
		RefreshTokenExpMinutes: 1440,
	}
}

func TestValidateTokenSecrets(t *testing.T) {
	t.Run("Success - Distinct secrets", func(t *testing.T) {
		assert.NoError(t, validConfig().ValidateTokenSecrets())
	})

	t.Run("Error - Same secret for both tokens", func(t *testing.T) {
		cfg := validConfig()
		cfg.RefreshTokenSecret = cfg.AccessTokenSecret
		assert.Error(t, cfg.ValidateTokenSecrets())
	})

	t.Run("Error - Missing secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.AccessTokenSecret = ""
		assert.Error(t, cfg.ValidateTokenSecrets())
	})

	t.Run("Error - Non-positive lifetime", func(t *testing.T) {
		cfg := validConfig()
		cfg.AccessTokenExpMinutes = 0
		assert.Error(t, cfg.ValidateTokenSecrets())
	})

	t.Run("Error - Default secrets in production", func(t *testing.T) {
		t.Setenv("ACCESS_TOKEN_SECRET_KEY", "")
		t.Setenv("REFRESH_TOKEN_SECRET_KEY", "")
		t.Setenv("APP_ENV", "production")
		cfg := config.Load()
		assert.Error(t, cfg.ValidateTokenSecrets())
	})
}
