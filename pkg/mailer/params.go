package mailer

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Params accumulates the parameters of one outbound email: template id,
// recipient, sender, template data and optional provider selectors.
//
// Fields are only ever overwritten or appended to. A Params is created per
// action call and is not safe for concurrent mutation.
type Params struct {
	sender   Sender
	enqueuer Enqueuer
	logger   *slog.Logger

	data        map[string]any
	headers     map[string]string
	templateID  string
	versionName string
	locale      string
	espAccount  string
	to          Recipient
	from        From
	cc          []string
	bcc         []string
	files       []Attachment
	tags        []string
}

// NewParams creates an empty accumulator. Options bind the delivery
// collaborators; WithDefaults fields are merged right away.
func NewParams(opts ...Option) *Params {
	o := applyOptions(options{}, opts)
	p := newParams(o)
	p.Merge(o.defaults)
	return p
}

func newParams(o options) *Params {
	return &Params{
		sender:   o.sender,
		enqueuer: o.enqueuer,
		logger:   o.logger,
		data:     make(map[string]any),
	}
}

// Assign sets one template data entry, overwriting any previous value for key.
// Nested maps and slices are passed through to the provider as is.
func (p *Params) Assign(key string, value any) {
	p.data[key] = value
}

// Merge applies recognized header fields: scalars are overwritten, cc, bcc,
// files and tags are appended to, and headers are merged key by key.
// Unrecognized keys are ignored.
func (p *Params) Merge(fields Fields) {
	for k, v := range fields.canonical() {
		if rule, ok := fieldRules[k]; ok {
			rule(p, v)
		}
	}
}

func (p *Params) TemplateID() string  { return p.templateID }
func (p *Params) To() Recipient       { return p.to }
func (p *Params) From() From          { return p.from }
func (p *Params) CC() []string        { return slices.Clone(p.cc) }
func (p *Params) BCC() []string       { return slices.Clone(p.bcc) }
func (p *Params) VersionName() string { return p.versionName }
func (p *Params) Locale() string      { return p.locale }
func (p *Params) ESPAccount() string  { return p.espAccount }
func (p *Params) Files() []Attachment { return slices.Clone(p.files) }
func (p *Params) Tags() []string      { return slices.Clone(p.tags) }

// Data returns a copy of the template data.
func (p *Params) Data() map[string]any { return maps.Clone(p.data) }

// Headers returns a copy of the custom headers.
func (p *Params) Headers() map[string]string { return maps.Clone(p.headers) }

// Message returns a snapshot of the current fields with a fresh delivery ID.
// Later changes to p do not affect the snapshot's containers.
func (p *Params) Message() *Message {
	return &Message{
		ID:          uuid.NewString(),
		TemplateID:  p.templateID,
		To:          p.to,
		From:        p.from,
		Data:        maps.Clone(p.data),
		CC:          slices.Clone(p.cc),
		BCC:         slices.Clone(p.bcc),
		ESPAccount:  p.espAccount,
		VersionName: p.versionName,
		Locale:      p.locale,
		Files:       slices.Clone(p.files),
		Headers:     maps.Clone(p.headers),
		Tags:        slices.Clone(p.tags),
	}
}

// hasTemplate reports whether a delivery would name a template. A blank id
// counts as unset.
func (p *Params) hasTemplate() bool {
	return strings.TrimSpace(p.templateID) != ""
}

// Deliver sends the message synchronously through the bound Sender.
// Without a template id it does nothing. Sender errors are returned unchanged.
func (p *Params) Deliver(ctx context.Context) error {
	if !p.hasTemplate() {
		p.logger.DebugContext(ctx, "delivery skipped: no template id")
		return nil
	}
	if p.sender == nil {
		return ErrSenderNotConfigured
	}

	msg := p.Message()
	ctx = WithDeliveryID(ctx, msg.ID)
	p.logger.DebugContext(ctx, "delivering message",
		slog.String("template_id", msg.TemplateID),
	)
	return p.sender.Send(ctx, msg)
}

// DeliverNow is an alias for Deliver.
func (p *Params) DeliverNow(ctx context.Context) error {
	return p.Deliver(ctx)
}

// DeliverLater hands the message to the bound Enqueuer for background delivery.
// Without a template id it does nothing. Enqueue errors are returned unchanged.
func (p *Params) DeliverLater(ctx context.Context) error {
	if !p.hasTemplate() {
		p.logger.DebugContext(ctx, "deferred delivery skipped: no template id")
		return nil
	}
	if p.enqueuer == nil {
		return ErrEnqueuerNotConfigured
	}

	msg := p.Message()
	ctx = WithDeliveryID(ctx, msg.ID)
	p.logger.DebugContext(ctx, "enqueueing message",
		slog.String("template_id", msg.TemplateID),
	)
	return p.enqueuer.Enqueue(ctx, msg)
}
