package mailer

import "fmt"

// Recipient is the primary addressee of a message.
// Address is the only field a provider requires.
type Recipient struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

// String formats the recipient in RFC 5322 form: "Name <address>".
func (r Recipient) String() string {
	return formatAddress(r.Name, r.Address)
}

// From describes the sender of a message.
type From struct {
	Address string `json:"address,omitempty"`
	Name    string `json:"name,omitempty"`
	ReplyTo string `json:"reply_to,omitempty"`
}

// String formats the sender in RFC 5322 form: "Name <address>".
func (f From) String() string {
	return formatAddress(f.Name, f.Address)
}

// Attachment represents an email attachment.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	ContentID   string `json:"content_id,omitempty"`
	Content     []byte `json:"content"`
}

// Message is the snapshot of a Params handed to a Sender or an Enqueuer.
// It is serialized as the payload of deferred deliveries.
type Message struct {
	Data        map[string]any    `json:"data,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	ID          string            `json:"id"`
	TemplateID  string            `json:"template_id"`
	VersionName string            `json:"version_name,omitempty"`
	Locale      string            `json:"locale,omitempty"`
	ESPAccount  string            `json:"esp_account,omitempty"`
	To          Recipient         `json:"to"`
	From        From              `json:"from"`
	CC          []string          `json:"cc,omitempty"`
	BCC         []string          `json:"bcc,omitempty"`
	Files       []Attachment      `json:"files,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
}

func formatAddress(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}
