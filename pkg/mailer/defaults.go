package mailer

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// LoadDefaults reads a YAML mapping of header fields, using the Key names:
//
//	email_id: tem_welcome
//	from_address: no-reply@example.com
//	from_name: Example
//	tags: [transactional]
//	headers:
//	  X-Entity-Ref-ID: welcome
//
// An empty document yields empty Fields.
func LoadDefaults(r io.Reader) (Fields, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Fields{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefaults, err)
	}

	fields := make(Fields, len(raw))
	for k, v := range raw {
		fields[Key(k)] = v
	}
	return fields, nil
}
