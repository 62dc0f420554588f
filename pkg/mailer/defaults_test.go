package mailer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	doc := `
email_id: tem_welcome
from_address: no-reply@example.com
from_name: Example
version_name: 2
tags: [transactional, welcome]
headers:
  X-Entity-Ref-ID: welcome
unknown_key: ignored
`
	fields, err := LoadDefaults(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, "tem_welcome", fields[EmailID])

	p := NewParams(WithDefaults(fields))
	require.Equal(t, "tem_welcome", p.TemplateID())
	require.Equal(t, From{Address: "no-reply@example.com", Name: "Example"}, p.From())
	require.Equal(t, "2", p.VersionName())
	require.Equal(t, []string{"transactional", "welcome"}, p.Tags())
	require.Equal(t, map[string]string{"X-Entity-Ref-ID": "welcome"}, p.Headers())
}

func TestLoadDefaults_Empty(t *testing.T) {
	t.Parallel()

	fields, err := LoadDefaults(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestLoadDefaults_NotAMapping(t *testing.T) {
	t.Parallel()

	_, err := LoadDefaults(strings.NewReader("- a\n- b\n"))
	require.ErrorIs(t, err, ErrInvalidDefaults)
}

func TestLoadDefaults_ClassDefaults(t *testing.T) {
	t.Parallel()

	fields, err := LoadDefaults(strings.NewReader("from_address: team@example.com\n"))
	require.NoError(t, err)

	c := NewClass("notifier", WithDefaults(fields))
	c.Action("ping", func(m *Mailer, _ ...any) error {
		m.Mail(Fields{EmailID: "tpl_ping"})
		return nil
	})

	p, err := c.Call("ping")
	require.NoError(t, err)
	require.Equal(t, "team@example.com", p.From().Address)
}

func TestDeliveryID_Context(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, ok := DeliveryID(ctx)
	require.False(t, ok)

	_, ok = DeliveryIDExtractor(ctx)
	require.False(t, ok)

	ctx = WithDeliveryID(ctx, "abc")
	id, ok := DeliveryID(ctx)
	require.True(t, ok)
	require.Equal(t, "abc", id)

	attr, ok := DeliveryIDExtractor(ctx)
	require.True(t, ok)
	require.Equal(t, "delivery_id", attr.Key)
	require.Equal(t, "abc", attr.Value.String())
}
