package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/require"
)

func parse(vars map[string]string) (Config, error) {
	return Parse(env.Options{Environment: vars})
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := parse(map[string]string{"DATABASE_URL": "postgres://localhost/courier"})
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, ProviderStdout, cfg.Provider)
	require.Equal(t, QueueRiver, cfg.Queue)
	require.Equal(t, 10, cfg.Workers)
	require.Equal(t, "courier:mailer", cfg.RedisKey)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, slog.LevelWarn, cfg.Sentry.MinLevel)
	require.Equal(t, "us-east-1", cfg.SES.Region)
	require.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestParse_Resend(t *testing.T) {
	t.Parallel()

	cfg, err := parse(map[string]string{
		"MAILER_PROVIDER":   "resend",
		"MAILER_QUEUE":      "redis",
		"RESEND_API_KEY":    "re_123",
		"RESEND_FROM_EMAIL": "team@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "re_123", cfg.Resend.APIKey)
	require.Equal(t, "team@example.com", cfg.Resend.SenderEmail)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vars map[string]string
		want error
	}{
		{"unknown provider", map[string]string{"MAILER_PROVIDER": "smtp", "DATABASE_URL": "postgres://x"}, ErrUnknownProvider},
		{"unknown queue", map[string]string{"MAILER_QUEUE": "sqs"}, ErrUnknownQueue},
		{"resend without key", map[string]string{"MAILER_PROVIDER": "resend", "DATABASE_URL": "postgres://x"}, ErrMissingValue},
		{"river without database", map[string]string{}, ErrMissingValue},
		{"bad duration", map[string]string{"SHUTDOWN_TIMEOUT": "soon"}, ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parse(tt.vars)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
