package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// PartnerClient is a thin client for the GupShup Partner API, used to
// provision one app per tenant and attach a phone number to it.
// Every call is a single attempt; failures go back to the caller as is.
type PartnerClient struct {
	APIKey  string
	BaseURL string // e.g. https://api.gupshup.io/partner/v1
	// WebhookBaseURL is this service's public URL; apps are created with
	// WebhookBaseURL + "/webhook/<tenant id>".
	WebhookBaseURL string
	HTTPClient     *http.Client
}

// CreatedApp is the Partner API answer to an app creation.
type CreatedApp struct {
	AppID    string `json:"app_id"`
	AppToken string `json:"app_token"`
	AppName  string `json:"app_name"`
}

func NewPartnerClient(apiKey, baseURL, webhookBaseURL string, timeout time.Duration) PartnerClient {
	return PartnerClient{
		APIKey:         apiKey,
		BaseURL:        strings.TrimRight(baseURL, "/"),
		WebhookBaseURL: strings.TrimRight(webhookBaseURL, "/"),
		HTTPClient:     &http.Client{Timeout: timeout},
	}
}

func (c PartnerClient) post(ctx context.Context, path string, body any, out any) error {
	endpoint := c.BaseURL + "/" + strings.TrimPrefix(path, "/")

	b, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encode partner request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return errors.Wrap(err, "build partner request")
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "partner api POST %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return readAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return errors.Wrapf(err, "decode partner response for %s", path)
	}
	return nil
}

// CreateApp provisions a GupShup app named "<company>-WhatsApp" whose
// webhook points back at this service for tenantID.
func (c PartnerClient) CreateApp(ctx context.Context, company string, tenantID string) (CreatedApp, error) {
	name := company + "-WhatsApp"
	body := map[string]any{
		"name":        name,
		"description": "WhatsApp integration for " + company,
		"webhook_url": c.WebhookBaseURL + "/webhook/" + url.PathEscape(tenantID),
	}

	var app CreatedApp
	if err := c.post(ctx, "apps", body, &app); err != nil {
		return CreatedApp{}, err
	}
	if strings.TrimSpace(app.AppID) == "" {
		return CreatedApp{}, errors.New("partner api: app creation response without app_id")
	}
	if app.AppName == "" {
		app.AppName = name
	}
	return app, nil
}

// AssignPhoneNumber attaches a number the tenant already owns to the app.
func (c PartnerClient) AssignPhoneNumber(ctx context.Context, appID string, phoneNumber string) error {
	return c.post(ctx, "apps/"+url.PathEscape(appID)+"/phone", map[string]any{
		"phone_number": phoneNumber,
	}, nil)
}

// RequestNewPhoneNumber asks GupShup to allocate a number for the app and
// returns it.
func (c PartnerClient) RequestNewPhoneNumber(ctx context.Context, appID string) (string, error) {
	var parsed struct {
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.post(ctx, "apps/"+url.PathEscape(appID)+"/phone/new", map[string]any{}, &parsed); err != nil {
		return "", err
	}
	if strings.TrimSpace(parsed.PhoneNumber) == "" {
		return "", errors.New("partner api: new phone response without phone_number")
	}
	return parsed.PhoneNumber, nil
}
