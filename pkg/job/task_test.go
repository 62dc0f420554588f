package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type testTask struct {
	err      error
	name     string
	payload  testPayload
	executed bool
}

func (t *testTask) Name() string { return t.name }

func (t *testTask) Handle(_ context.Context, p testPayload) error {
	t.executed = true
	t.payload = p
	return t.err
}

func TestTaskRegistry(t *testing.T) {
	t.Parallel()

	registry := newTaskRegistry()
	assert.Empty(t, registry.names())

	registry.register("welcome", newTaskWrapper[testPayload](&testTask{name: "welcome"}))
	registry.register("digest", newTaskWrapper[testPayload](&testTask{name: "digest"}))

	e, ok := registry.get("welcome")
	assert.True(t, ok)
	assert.NotNil(t, e)

	e, ok = registry.get("missing")
	assert.False(t, ok)
	assert.Nil(t, e)

	assert.Equal(t, []string{"digest", "welcome"}, registry.names())
}

func TestTaskWrapper_Execute(t *testing.T) {
	t.Parallel()

	t.Run("decodes payload", func(t *testing.T) {
		t.Parallel()

		task := &testTask{name: "welcome"}
		raw, err := json.Marshal(testPayload{Message: "hello", Count: 42})
		require.NoError(t, err)

		require.NoError(t, newTaskWrapper[testPayload](task).Execute(context.Background(), raw))
		assert.True(t, task.executed)
		assert.Equal(t, testPayload{Message: "hello", Count: 42}, task.payload)
	})

	t.Run("empty payload yields zero value", func(t *testing.T) {
		t.Parallel()

		task := &testTask{name: "welcome"}
		require.NoError(t, newTaskWrapper[testPayload](task).Execute(context.Background(), nil))
		assert.True(t, task.executed)
		assert.Equal(t, testPayload{}, task.payload)
	})

	t.Run("invalid payload", func(t *testing.T) {
		t.Parallel()

		task := &testTask{name: "welcome"}
		err := newTaskWrapper[testPayload](task).Execute(context.Background(), []byte("invalid json"))
		assert.ErrorIs(t, err, ErrInvalidPayload)
		assert.False(t, task.executed)
	})

	t.Run("handler error", func(t *testing.T) {
		t.Parallel()

		taskErr := errors.New("task failed")
		task := &testTask{name: "welcome", err: taskErr}
		err := newTaskWrapper[testPayload](task).Execute(context.Background(), nil)
		assert.ErrorIs(t, err, taskErr)
	})
}
