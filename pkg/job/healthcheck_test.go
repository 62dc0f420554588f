package job

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	t.Run("nil manager", func(t *testing.T) {
		t.Parallel()

		err := Healthcheck(nil)(context.Background())
		require.ErrorIs(t, err, ErrHealthcheckFailed)
		require.ErrorIs(t, err, errManagerNil)
	})

	t.Run("not started", func(t *testing.T) {
		t.Parallel()

		err := Healthcheck(&Manager{registry: newTaskRegistry()})(context.Background())
		require.ErrorIs(t, err, ErrHealthcheckFailed)
		require.ErrorIs(t, err, errManagerNotStarted)
	})
}
