package job

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type optionsTestTask struct{}

func (t *optionsTestTask) Name() string { return "options_test" }

func (t *optionsTestTask) Handle(context.Context, struct{}) error { return nil }

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := newConfig()

	assert.NotNil(t, cfg.registry)
	assert.NotNil(t, cfg.queues)
	assert.Nil(t, cfg.logger)
	assert.Zero(t, cfg.maxWorkers)
}

func TestWithTask(t *testing.T) {
	t.Parallel()

	cfg := newConfig()
	WithTask[struct{}](&optionsTestTask{})(cfg)

	e, ok := cfg.registry.get("options_test")
	assert.True(t, ok)
	assert.NotNil(t, e)
}

func TestWithQueue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		queue   string
		workers int
		want    map[string]int
	}{
		{"positive workers", "mailers", 10, map[string]int{"mailers": 10}},
		{"zero workers ignored", "mailers", 0, map[string]int{}},
		{"negative workers ignored", "mailers", -5, map[string]int{}},
		{"empty name ignored", "", 3, map[string]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := newConfig()
			WithQueue(tt.queue, tt.workers)(cfg)
			assert.Equal(t, tt.want, cfg.queues)
		})
	}
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	cfg := newConfig()
	logger := slog.New(slog.DiscardHandler)

	WithLogger(logger)(cfg)
	assert.Same(t, logger, cfg.logger)

	WithLogger(nil)(cfg)
	assert.Same(t, logger, cfg.logger, "nil logger keeps the current one")
}

func TestWithMaxWorkers(t *testing.T) {
	t.Parallel()

	cfg := newConfig()

	WithMaxWorkers(50)(cfg)
	assert.Equal(t, 50, cfg.maxWorkers)

	WithMaxWorkers(0)(cfg)
	WithMaxWorkers(-10)(cfg)
	assert.Equal(t, 50, cfg.maxWorkers)
}
