package mailer

import (
	"fmt"
	"maps"
	"strconv"
)

// Key names a header field understood by Params.Merge.
type Key string

// Recognized header fields. The string values are the names used in
// YAML defaults documents.
const (
	EmailID          Key = "email_id"
	TemplateID       Key = "template_id" // alias of EmailID; EmailID wins when both are set
	RecipientAddress Key = "recipient_address"
	RecipientName    Key = "recipient_name"
	FromAddress      Key = "from_address"
	FromName         Key = "from_name"
	ReplyTo          Key = "reply_to"
	CC               Key = "cc"
	BCC              Key = "bcc"
	VersionName      Key = "version_name"
	Locale           Key = "locale"
	ESPAccount       Key = "esp_account"
	Files            Key = "files"
	Headers          Key = "headers"
	Tags             Key = "tags"
)

// Fields is a bag of header values keyed by Key.
// Keys that Merge does not recognize are ignored.
type Fields map[Key]any

// Clone returns a shallow copy of f. A nil receiver yields an empty bag.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	maps.Copy(out, f)
	return out
}

// With returns a copy of f overlaid with other. Values in other win, also
// when one side names a field through an alias such as TemplateID.
func (f Fields) With(other Fields) Fields {
	out := f.canonical().Clone()
	maps.Copy(out, other.canonical())
	return out
}

// keyAliases maps alternative names to the key Merge applies.
var keyAliases = map[Key]Key{
	TemplateID: EmailID,
}

// canonical folds aliases into their primary key. Inside one bag the
// primary key wins over its alias. f is returned as is when it holds no alias.
func (f Fields) canonical() Fields {
	var out Fields
	for alias, primary := range keyAliases {
		v, ok := f[alias]
		if !ok {
			continue
		}
		if out == nil {
			out = f.Clone()
		}
		delete(out, alias)
		if _, taken := out[primary]; !taken {
			out[primary] = v
		}
	}
	if out == nil {
		return f
	}
	return out
}

// fieldRule applies one recognized key to the accumulator.
// Values of an unusable type leave p untouched.
type fieldRule func(p *Params, v any)

var fieldRules = map[Key]fieldRule{
	EmailID:          setScalar(func(p *Params, s string) { p.templateID = s }),
	RecipientAddress: setScalar(func(p *Params, s string) { p.to.Address = s }),
	RecipientName:    setScalar(func(p *Params, s string) { p.to.Name = s }),
	FromAddress:      setScalar(func(p *Params, s string) { p.from.Address = s }),
	FromName:         setScalar(func(p *Params, s string) { p.from.Name = s }),
	ReplyTo:          setScalar(func(p *Params, s string) { p.from.ReplyTo = s }),
	VersionName:      setScalar(func(p *Params, s string) { p.versionName = s }),
	Locale:           setScalar(func(p *Params, s string) { p.locale = s }),
	ESPAccount:       setScalar(func(p *Params, s string) { p.espAccount = s }),
	CC:               appendList(func(p *Params, s []string) { p.cc = append(p.cc, s...) }),
	BCC:              appendList(func(p *Params, s []string) { p.bcc = append(p.bcc, s...) }),
	Tags:             appendList(func(p *Params, s []string) { p.tags = append(p.tags, s...) }),
	Files: func(p *Params, v any) {
		if files, ok := toAttachments(v); ok {
			p.files = append(p.files, files...)
		}
	},
	Headers: func(p *Params, v any) {
		if h, ok := toHeaderMap(v); ok {
			if p.headers == nil {
				p.headers = make(map[string]string, len(h))
			}
			maps.Copy(p.headers, h)
		}
	},
}

// IsRecognized reports whether Merge applies k.
func IsRecognized(k Key) bool {
	if primary, ok := keyAliases[k]; ok {
		k = primary
	}
	_, ok := fieldRules[k]
	return ok
}

func setScalar(set func(*Params, string)) fieldRule {
	return func(p *Params, v any) {
		if s, ok := toString(v); ok {
			set(p, s)
		}
	}
}

func appendList(add func(*Params, []string)) fieldRule {
	return func(p *Params, v any) {
		if s, ok := toStrings(v); ok {
			add(p, s)
		}
	}
}

func toString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return "", false
	}
}

func toStrings(v any) ([]string, bool) {
	switch val := v.(type) {
	case []string:
		return val, true
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := toString(item)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		s, ok := toString(v)
		if !ok {
			return nil, false
		}
		return []string{s}, true
	}
}

func toAttachments(v any) ([]Attachment, bool) {
	switch val := v.(type) {
	case []Attachment:
		return val, true
	case Attachment:
		return []Attachment{val}, true
	case *Attachment:
		if val == nil {
			return nil, false
		}
		return []Attachment{*val}, true
	default:
		return nil, false
	}
}

func toHeaderMap(v any) (map[string]string, bool) {
	switch val := v.(type) {
	case map[string]string:
		return val, true
	case map[string]any:
		out := make(map[string]string, len(val))
		for k, item := range val {
			s, ok := toString(item)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}
