package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "engagesync", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "local", cfg.Dispatch.Backend)
	assert.Equal(t, 4, cfg.Dispatch.Workers)
	assert.Equal(t, 120*time.Second, cfg.Delivery.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "postgres://postgres:@localhost:5432/engagesync?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestFromViper_EnvOverride(t *testing.T) {
	t.Setenv("ENGAGESYNC_DISPATCH_BACKEND", "redis")
	t.Setenv("ENGAGESYNC_DISPATCH_WORKERS", "8")
	t.Setenv("ENGAGESYNC_DELIVERY_TIMEOUT", "30s")

	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Dispatch.Backend)
	assert.Equal(t, 8, cfg.Dispatch.Workers)
	assert.Equal(t, 30*time.Second, cfg.Delivery.Timeout)
}

func TestFromViper_Validation(t *testing.T) {
	t.Run("rejects unknown dispatch backend", func(t *testing.T) {
		v := viper.New()
		v.Set("dispatch.backend", "kafka")

		_, err := fromViper(v)
		assert.Error(t, err)
	})

	t.Run("requires hook secret in production", func(t *testing.T) {
		v := viper.New()
		v.Set("app.env", "production")

		_, err := fromViper(v)
		assert.Error(t, err)
	})

	t.Run("accepts production with secret", func(t *testing.T) {
		v := viper.New()
		v.Set("app.env", "production")
		v.Set("auth.hook_secret", "s3cret")

		cfg, err := fromViper(v)
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}
