package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSender is a mock implementation of Sender interface.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg *Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockEnqueuer is a mock implementation of Enqueuer interface.
type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(ctx context.Context, msg *Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestNewParams_DataEmpty(t *testing.T) {
	t.Parallel()

	p := NewParams()

	require.Empty(t, p.Data())
	require.Empty(t, p.TemplateID())
}

func TestParams_Assign(t *testing.T) {
	t.Parallel()

	p := NewParams()
	p.Assign("user", map[string]any{"name": "Dave", "email": "dave@example.com"})
	require.Equal(t, map[string]any{
		"user": map[string]any{"name": "Dave", "email": "dave@example.com"},
	}, p.Data())

	p.Assign("url", "http://test.example.com")
	require.Equal(t, map[string]any{
		"user": map[string]any{"name": "Dave", "email": "dave@example.com"},
		"url":  "http://test.example.com",
	}, p.Data())
}

func TestParams_Assign_Idempotent(t *testing.T) {
	t.Parallel()

	once := NewParams()
	once.Assign("company", "Big Co Inc")

	twice := NewParams()
	twice.Assign("company", "Big Co Inc")
	twice.Assign("company", "Big Co Inc")

	require.Equal(t, once.Data(), twice.Data())

	twice.Assign("company", "Small Co")
	require.Equal(t, map[string]any{"company": "Small Co"}, twice.Data())
}

func TestParams_Assign_KeysAreCaseSensitive(t *testing.T) {
	t.Parallel()

	p := NewParams()
	p.Assign("Name", "upper")
	p.Assign("name", "lower")
	p.Assign(" name", "spaced")

	require.Len(t, p.Data(), 3)
	require.Equal(t, "upper", p.Data()["Name"])
	require.Equal(t, "lower", p.Data()["name"])
	require.Equal(t, "spaced", p.Data()[" name"])
}

func TestParams_Data_ReturnsCopy(t *testing.T) {
	t.Parallel()

	p := NewParams()
	p.Assign("a", 1)

	data := p.Data()
	data["b"] = 2

	require.Equal(t, map[string]any{"a": 1}, p.Data())
}

func TestParams_Message_Snapshot(t *testing.T) {
	t.Parallel()

	p := NewParams()
	p.Assign("name", "Dave")
	p.Merge(Fields{
		EmailID:          "tpl1",
		RecipientAddress: "dave@example.com",
		RecipientName:    "Dave",
		FromAddress:      "team@example.com",
		FromName:         "Team",
		ReplyTo:          "support@example.com",
		CC:               []string{"cc@example.com"},
		BCC:              []string{"bcc@example.com"},
		VersionName:      "v2",
		Locale:           "en-US",
		ESPAccount:       "esp_123",
		Files:            []Attachment{{Filename: "a.pdf", Content: []byte("pdf")}},
		Headers:          map[string]string{"X-Ref": "1"},
		Tags:             []string{"welcome"},
	})

	msg := p.Message()

	require.NotEmpty(t, msg.ID)
	require.Equal(t, "tpl1", msg.TemplateID)
	require.Equal(t, Recipient{Address: "dave@example.com", Name: "Dave"}, msg.To)
	require.Equal(t, From{Address: "team@example.com", Name: "Team", ReplyTo: "support@example.com"}, msg.From)
	require.Equal(t, map[string]any{"name": "Dave"}, msg.Data)
	require.Equal(t, []string{"cc@example.com"}, msg.CC)
	require.Equal(t, []string{"bcc@example.com"}, msg.BCC)
	require.Equal(t, "v2", msg.VersionName)
	require.Equal(t, "en-US", msg.Locale)
	require.Equal(t, "esp_123", msg.ESPAccount)
	require.Len(t, msg.Files, 1)
	require.Equal(t, map[string]string{"X-Ref": "1"}, msg.Headers)
	require.Equal(t, []string{"welcome"}, msg.Tags)

	// Later changes do not leak into the snapshot.
	p.Assign("late", true)
	p.Merge(Fields{CC: "late@example.com", Headers: map[string]string{"X-Late": "1"}})
	require.NotContains(t, msg.Data, "late")
	require.Equal(t, []string{"cc@example.com"}, msg.CC)
	require.NotContains(t, msg.Headers, "X-Late")
}

func TestParams_Message_FreshIDs(t *testing.T) {
	t.Parallel()

	p := NewParams()
	require.NotEqual(t, p.Message().ID, p.Message().ID)
}

func TestParams_Deliver_CallsSender(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	p := NewParams(WithSender(sender))
	p.Merge(Fields{EmailID: "x", RecipientAddress: "dave@example.com"})
	p.Assign("name", "Dave")

	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg *Message) bool {
		return msg.TemplateID == "x" &&
			msg.To.Address == "dave@example.com" &&
			msg.Data["name"] == "Dave"
	})).Return(nil).Once()

	require.NoError(t, p.Deliver(context.Background()))
	sender.AssertExpectations(t)
}

func TestParams_DeliverNow_CallsSender(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	p := NewParams(WithSender(sender))
	p.Merge(Fields{EmailID: "x"})

	sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	require.NoError(t, p.DeliverNow(context.Background()))
	sender.AssertExpectations(t)
}

func TestParams_Deliver_NoTemplateID(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	p := NewParams(WithSender(sender))
	p.Merge(Fields{RecipientAddress: "dave@example.com"})

	require.NoError(t, p.Deliver(context.Background()))
	require.NoError(t, p.DeliverNow(context.Background()))
	sender.AssertNotCalled(t, "Send")
}

func TestParams_Deliver_EmptyTemplateID(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	p := NewParams(WithSender(sender))
	p.Merge(Fields{EmailID: ""})

	require.NoError(t, p.Deliver(context.Background()))
	sender.AssertNotCalled(t, "Send")
}

func TestParams_Deliver_BlankTemplateID(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	enqueuer := &MockEnqueuer{}
	p := NewParams(WithSender(sender), WithEnqueuer(enqueuer))

	for _, blank := range []string{" ", "\t", " \n "} {
		p.Merge(Fields{EmailID: blank})
		require.NoError(t, p.Deliver(context.Background()))
		require.NoError(t, p.DeliverLater(context.Background()))
	}
	sender.AssertNotCalled(t, "Send")
	enqueuer.AssertNotCalled(t, "Enqueue")
}

func TestParams_Deliver_NoSender(t *testing.T) {
	t.Parallel()

	p := NewParams()
	require.NoError(t, p.Deliver(context.Background()))

	p.Merge(Fields{EmailID: "x"})
	require.ErrorIs(t, p.Deliver(context.Background()), ErrSenderNotConfigured)
}

func TestParams_Deliver_PropagatesSenderError(t *testing.T) {
	t.Parallel()

	senderErr := errors.New("api: unauthorized")
	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(senderErr)

	p := NewParams(WithSender(sender))
	p.Merge(Fields{EmailID: "x"})

	err := p.Deliver(context.Background())
	require.Same(t, senderErr, err)
}

func TestParams_DeliverLater_Enqueues(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	enqueuer := &MockEnqueuer{}
	p := NewParams(WithSender(sender), WithEnqueuer(enqueuer))
	p.Merge(Fields{EmailID: "x", Tags: []string{"later"}})

	enqueuer.On("Enqueue", mock.Anything, mock.MatchedBy(func(msg *Message) bool {
		return msg.TemplateID == "x" && len(msg.Tags) == 1 && msg.Tags[0] == "later"
	})).Return(nil).Once()

	require.NoError(t, p.DeliverLater(context.Background()))
	enqueuer.AssertExpectations(t)
	sender.AssertNotCalled(t, "Send")
}

func TestParams_DeliverLater_NoTemplateID(t *testing.T) {
	t.Parallel()

	enqueuer := &MockEnqueuer{}
	p := NewParams(WithEnqueuer(enqueuer))

	require.NoError(t, p.DeliverLater(context.Background()))
	enqueuer.AssertNotCalled(t, "Enqueue")
}

func TestParams_DeliverLater_NoEnqueuer(t *testing.T) {
	t.Parallel()

	p := NewParams()
	p.Merge(Fields{EmailID: "x"})

	require.ErrorIs(t, p.DeliverLater(context.Background()), ErrEnqueuerNotConfigured)
}

func TestParams_DeliverLater_PropagatesEnqueueError(t *testing.T) {
	t.Parallel()

	enqueueErr := errors.New("queue unavailable")
	enqueuer := &MockEnqueuer{}
	enqueuer.On("Enqueue", mock.Anything, mock.Anything).Return(enqueueErr)

	p := NewParams(WithEnqueuer(enqueuer))
	p.Merge(Fields{EmailID: "x"})

	require.Same(t, enqueueErr, p.DeliverLater(context.Background()))
}

func TestNewParams_WithDefaults(t *testing.T) {
	t.Parallel()

	p := NewParams(WithDefaults(Fields{
		FromAddress: "team@example.com",
		Tags:        []string{"default"},
	}))

	require.Equal(t, "team@example.com", p.From().Address)
	require.Equal(t, []string{"default"}, p.Tags())
}

func TestParams_Deliver_CarriesDeliveryID(t *testing.T) {
	t.Parallel()

	var ctxID, msgID string
	p := NewParams(WithSender(SenderFunc(func(ctx context.Context, msg *Message) error {
		ctxID, _ = DeliveryID(ctx)
		msgID = msg.ID
		return nil
	})))
	p.Merge(Fields{EmailID: "x"})

	require.NoError(t, p.Deliver(context.Background()))
	require.NotEmpty(t, msgID)
	require.Equal(t, msgID, ctxID)
}
