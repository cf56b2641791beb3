package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const GUPSHUP_STATUS_SUBMITTED = "submitted"

// MessageClient sends WhatsApp messages through GupShup's message API
// (https://api.gupshup.io/sm/api/v1/msg). Authentication is per tenant:
// each call carries the app token of the sending tenant.
type MessageClient struct {
	URL        string
	HTTPClient *http.Client
}

// Sender identifies the tenant side of an outbound message.
type Sender struct {
	AppToken string
	Source   string // the tenant's WhatsApp number
	Name     string // src.name, the GupShup app name
}

// SendResult is the decoded GupShup answer; Raw keeps the body untouched
// so it can be handed back to the caller.
type SendResult struct {
	Status    string          `json:"status"`
	MessageID string          `json:"messageId"`
	Message   string          `json:"message"`
	Raw       json.RawMessage `json:"-"`
}

func NewMessageClient(endpoint string, timeout time.Duration) MessageClient {
	return MessageClient{
		URL:        endpoint,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// SendText sends a text message from sender to destination. Any answer
// whose status is not "submitted" is returned as an *APIError carrying
// GupShup's message.
func (c MessageClient) SendText(ctx context.Context, sender Sender, destination string, text string) (SendResult, error) {
	body, err := json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{Type: "text", Text: text})
	if err != nil {
		return SendResult{}, errors.Wrap(err, "encode message")
	}

	form := url.Values{}
	form.Set("channel", "whatsapp")
	form.Set("source", sender.Source)
	form.Set("destination", destination)
	form.Set("src.name", sender.Name)
	form.Set("message", string(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return SendResult{}, errors.Wrap(err, "build send request")
	}
	req.Header.Set("apikey", strings.TrimSpace(sender.AppToken))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return SendResult{}, errors.Wrap(err, "gupshup send")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := readAPIError(resp)
		if apiErr.Message == "" {
			apiErr.Message = "Failed to send message via GupShup"
		}
		return SendResult{}, apiErr
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return SendResult{}, errors.Wrap(err, "read gupshup response")
	}

	var result SendResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return SendResult{}, &APIError{StatusCode: resp.StatusCode, Body: string(raw), Message: "Failed to send message via GupShup"}
	}
	result.Raw = raw

	if result.Status != GUPSHUP_STATUS_SUBMITTED {
		msg := strings.TrimSpace(result.Message)
		if msg == "" {
			msg = "Failed to send message via GupShup"
		}
		return result, &APIError{StatusCode: resp.StatusCode, Body: string(raw), Message: msg}
	}
	return result, nil
}
