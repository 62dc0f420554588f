package job

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInserter struct {
	args river.JobArgs
	opts *river.InsertOpts
	err  error
}

func (s *stubInserter) Insert(_ context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error) {
	s.args = args
	s.opts = opts
	if s.err != nil {
		return nil, s.err
	}
	return &rivertype.JobInsertResult{Job: &rivertype.JobRow{ID: 7}}, nil
}

func newTestEnqueuer(ins jobInserter) *Enqueuer {
	return &Enqueuer{
		client: ins,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestEnqueuer_Enqueue(t *testing.T) {
	t.Parallel()

	t.Run("inserts task args", func(t *testing.T) {
		t.Parallel()

		ins := &stubInserter{}
		err := newTestEnqueuer(ins).Enqueue(context.Background(), "mailer_deliver", map[string]string{"to": "a@example.com"}, InQueue("mailers"))
		require.NoError(t, err)

		args, ok := ins.args.(*taskArgs)
		require.True(t, ok)
		assert.Equal(t, "mailer_deliver", args.TaskName)
		assert.JSONEq(t, `{"to":"a@example.com"}`, string(args.Payload))
		assert.Equal(t, "mailers", ins.opts.Queue)
	})

	t.Run("insert error keeps its cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		err := newTestEnqueuer(&stubInserter{err: cause}).Enqueue(context.Background(), "mailer_deliver", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("marshal error skips insert", func(t *testing.T) {
		t.Parallel()

		ins := &stubInserter{}
		err := newTestEnqueuer(ins).Enqueue(context.Background(), "mailer_deliver", map[string]any{"fn": func() {}})
		require.Error(t, err)
		assert.Nil(t, ins.args)
	})
}
