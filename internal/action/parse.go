// Package action extracts the requested action from an inbound event payload.
package action

import (
	"encoding/json"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/wizeline/neptune-scheduler/internal/domain"
)

// Envelope keys read from the inbound payload.
const (
	DetailKey  = "detail"
	IDKey      = "id"
	SourceKey  = "source"
	MessageKey = "MESSAGE"
)

// Event is a parsed invocation: the descriptor plus the envelope fields
// worth logging. ID and Source are empty for bare payloads.
type Event struct {
	ID         string
	Source     string
	Descriptor domain.ActionDescriptor
}

// actionField is the only strictly typed part of the payload.
type actionField struct {
	Action domain.Action `mapstructure:"ACTION"`
}

// Parse decodes raw into an Event. When the payload carries a detail object
// that object holds the action, otherwise the top-level object does. Key
// names match case-insensitively, so both ACTION and action are accepted.
// Only ACTION can make an event malformed; a MESSAGE that is not a string
// is ignored.
func Parse(raw json.RawMessage) (Event, error) {
	var evt Event

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return evt, &domain.MalformedEventError{Reason: "payload is not a JSON object", Err: err}
	}
	if doc == nil {
		return evt, &domain.MalformedEventError{Reason: "payload is empty"}
	}

	body := doc
	if v, ok := doc[DetailKey]; ok {
		detail, ok := v.(map[string]interface{})
		if !ok {
			return evt, &domain.MalformedEventError{Reason: "detail is not an object"}
		}
		body = detail
		evt.ID = stringField(doc, IDKey)
		evt.Source = stringField(doc, SourceKey)
	}

	var field actionField
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &field,
	})
	if err != nil {
		return evt, &domain.MalformedEventError{Reason: "cannot build decoder", Err: err}
	}
	if err := decoder.Decode(body); err != nil {
		return evt, &domain.MalformedEventError{Reason: "cannot decode ACTION", Err: err}
	}
	if field.Action == "" {
		return evt, &domain.MalformedEventError{Reason: "ACTION is required"}
	}

	evt.Descriptor = domain.ActionDescriptor{
		Action:  field.Action,
		Message: stringField(body, MessageKey),
	}
	return evt, nil
}

// stringField returns doc[key] when it is a string, trying an exact key
// first and then a case-insensitive match. Anything else yields "".
func stringField(doc map[string]interface{}, key string) string {
	v, ok := doc[key]
	if !ok {
		for k, candidate := range doc {
			if strings.EqualFold(k, key) {
				v, ok = candidate, true
				break
			}
		}
	}
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
