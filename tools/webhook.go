package tools

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

const (
	WEBHOOK_TYPE_MESSAGE       = "message"
	WEBHOOK_TYPE_MESSAGE_EVENT = "message-event"
)

// WebhookEnvelope is the outer shape of every GupShup callback. Payload is
// decoded later according to Type.
type WebhookEnvelope struct {
	App       string          `json:"app"`
	Timestamp int64           `json:"timestamp"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

// HasPayload reports whether the callback carried a non-null payload.
func (e WebhookEnvelope) HasPayload() bool {
	p := strings.TrimSpace(string(e.Payload))
	return p != "" && p != "null"
}

// InboundMessage is the payload of a "message" callback.
type InboundMessage struct {
	ID      string         `json:"id"`
	Source  string         `json:"source"`
	Type    string         `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Sender  struct {
		Phone string `json:"phone"`
		Name  string `json:"name"`
	} `json:"sender"`
}

// InboundContent holds the subtype-specific fields of an inbound message.
// Only the ones the log cares about are decoded.
type InboundContent struct {
	Text     string `json:"text"`
	Caption  string `json:"caption"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// From returns the sender number, preferring source over sender.phone.
func (m InboundMessage) From() string {
	if s := strings.TrimSpace(m.Source); s != "" {
		return s
	}
	return strings.TrimSpace(m.Sender.Phone)
}

// MessageEvent is the payload of a "message-event" callback (delivery status).
type MessageEvent struct {
	ID          string `json:"id"`
	GsID        string `json:"gsId"`
	EventType   string `json:"eventType"`
	Type        string `json:"type"`
	Destination string `json:"destination"`
}

// MessageID is the id the status applies to; gsId is only used when id is absent.
func (e MessageEvent) MessageID() string {
	if id := strings.TrimSpace(e.ID); id != "" {
		return id
	}
	return strings.TrimSpace(e.GsID)
}

// Status is the event name stored on the message row. Older payloads use
// eventType, newer ones type.
func (e MessageEvent) Status() string {
	if s := strings.TrimSpace(e.EventType); s != "" {
		return s
	}
	return strings.TrimSpace(e.Type)
}

func (e WebhookEnvelope) InboundMessage() (InboundMessage, error) {
	var m InboundMessage
	if err := json.Unmarshal(e.Payload, &m); err != nil {
		return m, errors.Wrap(err, "decode message payload")
	}
	return m, nil
}

func (e WebhookEnvelope) MessageEvent() (MessageEvent, error) {
	var ev MessageEvent
	if err := json.Unmarshal(e.Payload, &ev); err != nil {
		return ev, errors.Wrap(err, "decode message-event payload")
	}
	return ev, nil
}

// DisplayText turns an inbound message into the text kept in the log.
// known is false for subtypes without a dedicated rule; those get "[<type>]"
// and their inner payload is never read. An inner payload that does not
// decode as InboundContent falls back to the subtype placeholder.
func DisplayText(messageType string, payload json.RawMessage) (text string, known bool) {
	switch messageType {
	case "text":
		content, ok := decodeContent(payload)
		if !ok {
			return "[text]", true
		}
		return content.Text, true
	case "image":
		content, _ := decodeContent(payload)
		return orPlaceholder(content.Caption, "[Image]"), true
	case "video":
		content, _ := decodeContent(payload)
		return orPlaceholder(content.Caption, "[Video]"), true
	case "audio":
		return "[Audio]", true
	case "document":
		content, _ := decodeContent(payload)
		return orPlaceholder(content.Filename, "[Document]"), true
	default:
		return "[" + messageType + "]", false
	}
}

func decodeContent(payload json.RawMessage) (InboundContent, bool) {
	var content InboundContent
	p := strings.TrimSpace(string(payload))
	if p == "" || p == "null" {
		return content, false
	}
	if err := json.Unmarshal(payload, &content); err != nil {
		return InboundContent{}, false
	}
	return content, true
}

func orPlaceholder(v string, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
