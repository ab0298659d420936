package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablebell/restaurant-api/internal/config"
	"github.com/tablebell/restaurant-api/internal/ratelimit"
)

func TestInitLogger_Level(t *testing.T) {
	logger := initLogger(config.LogConfig{Level: "warn", Format: "json"})

	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestLoginLimiter_Backends(t *testing.T) {
	tests := []struct {
		backend string
		want    interface{}
	}{
		{"memory", &ratelimit.Memory{}},
		{"none", ratelimit.Noop{}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := config.Default()
			cfg.LoginLimit.Backend = tt.backend

			a := &App{config: &cfg, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
			limiter, err := a.loginLimiter(context.Background())

			require.NoError(t, err)
			assert.IsType(t, tt.want, limiter)
			assert.Nil(t, a.redis)
		})
	}
}
