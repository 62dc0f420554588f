package mailjob

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/job"
	"github.com/dmitrymomot/courier/pkg/mailer"
)

type mockJobEnqueuer struct {
	mock.Mock
}

func (m *mockJobEnqueuer) Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) error {
	args := m.Called(ctx, name, payload, len(opts))
	return args.Error(0)
}

func TestEnqueuer_Enqueue(t *testing.T) {
	t.Parallel()

	jobs := &mockJobEnqueuer{}
	msg := &mailer.Message{ID: "d-1", TemplateID: "tpl1"}
	jobs.On("Enqueue", mock.Anything, TaskName, msg, 2).Return(nil).Once()

	e := NewEnqueuer(jobs, job.InQueue("mailers"), job.MaxAttempts(5))
	require.NoError(t, e.Enqueue(context.Background(), msg))
	jobs.AssertExpectations(t)
}

func TestEnqueuer_PropagatesError(t *testing.T) {
	t.Parallel()

	jobErr := errors.New("insert failed")
	jobs := &mockJobEnqueuer{}
	jobs.On("Enqueue", mock.Anything, TaskName, mock.Anything, 0).Return(jobErr)

	err := NewEnqueuer(jobs).Enqueue(context.Background(), &mailer.Message{TemplateID: "tpl1"})
	require.Same(t, jobErr, err)
}

func TestTask_Handle(t *testing.T) {
	t.Parallel()

	var gotMsg *mailer.Message
	var gotID string
	sender := mailer.SenderFunc(func(ctx context.Context, msg *mailer.Message) error {
		gotMsg = msg
		gotID, _ = mailer.DeliveryID(ctx)
		return nil
	})

	task := NewTask(sender)
	require.Equal(t, "mailer_deliver", task.Name())

	msg := mailer.Message{
		ID:         "d-1",
		TemplateID: "tpl1",
		To:         mailer.Recipient{Address: "dave@x.com"},
		Data:       map[string]any{"name": "Dave"},
	}
	require.NoError(t, task.Handle(context.Background(), msg))
	require.Equal(t, msg, *gotMsg)
	require.Equal(t, "d-1", gotID)
}

func TestTask_Handle_SenderError(t *testing.T) {
	t.Parallel()

	sendErr := errors.New("rate limited")
	task := NewTask(mailer.SenderFunc(func(context.Context, *mailer.Message) error { return sendErr }))

	err := task.Handle(context.Background(), mailer.Message{TemplateID: "tpl1"})
	require.Same(t, sendErr, err)
}

func TestTask_Handle_NoSender(t *testing.T) {
	t.Parallel()

	err := NewTask(nil).Handle(context.Background(), mailer.Message{TemplateID: "tpl1"})
	require.ErrorIs(t, err, mailer.ErrSenderNotConfigured)
}

// The payload written by Enqueuer must decode into the Task's payload type.
func TestRoundTrip_ThroughJobPayload(t *testing.T) {
	t.Parallel()

	var raw []byte
	jobs := &mockJobEnqueuer{}
	jobs.On("Enqueue", mock.Anything, TaskName, mock.Anything, 0).
		Run(func(args mock.Arguments) {
			var err error
			raw, err = json.Marshal(args.Get(2))
			require.NoError(t, err)
		}).
		Return(nil)

	p := mailer.NewParams(mailer.WithEnqueuer(NewEnqueuer(jobs)))
	p.Merge(mailer.Fields{
		mailer.EmailID:          "tpl1",
		mailer.RecipientAddress: "dave@x.com",
		mailer.FromAddress:      "a@x.com",
		mailer.Files:            []mailer.Attachment{{Filename: "a.txt", Content: []byte("hi")}},
	})
	p.Assign("name", "Dave")
	require.NoError(t, p.DeliverLater(context.Background()))

	var decoded mailer.Message
	require.NoError(t, json.Unmarshal(raw, &decoded))

	var sent *mailer.Message
	task := NewTask(mailer.SenderFunc(func(_ context.Context, msg *mailer.Message) error {
		sent = msg
		return nil
	}))
	require.NoError(t, task.Handle(context.Background(), decoded))

	require.Equal(t, "tpl1", sent.TemplateID)
	require.Equal(t, "dave@x.com", sent.To.Address)
	require.Equal(t, "a@x.com", sent.From.Address)
	require.Equal(t, map[string]any{"name": "Dave"}, sent.Data)
	require.Equal(t, []byte("hi"), sent.Files[0].Content)
	require.NotEmpty(t, sent.ID)
}
