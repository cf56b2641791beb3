package controllers_test

import (
	"encoding/hex"
	"net/http"
	"testing"

	"b24relay/config"
	"b24relay/models"
	"b24relay/tools"
)

func TestWebhookStoresInboundMessages(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.seedApp("t1", "917834811114")

	tests := []struct {
		name     string
		payload  map[string]any
		wantType string
		wantText string
	}{
		{
			name:     "text",
			payload:  map[string]any{"id": "in-1", "source": "5511999998888", "type": "text", "payload": map[string]any{"text": "olá"}},
			wantType: "text",
			wantText: "olá",
		},
		{
			name:     "image with caption",
			payload:  map[string]any{"id": "in-2", "source": "5511999998888", "type": "image", "payload": map[string]any{"caption": "foto", "url": "https://cdn.example/1.jpg"}},
			wantType: "image",
			wantText: "foto",
		},
		{
			name:     "document without filename",
			payload:  map[string]any{"id": "in-3", "source": "5511999998888", "type": "document", "payload": map[string]any{"url": "https://cdn.example/1.pdf"}},
			wantType: "document",
			wantText: "[Document]",
		},
		{
			name:     "sender phone fallback",
			payload:  map[string]any{"id": "in-4", "type": "audio", "payload": map[string]any{}, "sender": map[string]any{"phone": "5511999998888", "name": "Ana"}},
			wantType: "audio",
			wantText: "[Audio]",
		},
		{
			name:     "unknown type with string payload",
			payload:  map[string]any{"id": "in-6", "source": "5511999998888", "type": "sticker", "payload": "opaque"},
			wantType: "sticker",
			wantText: "[sticker]",
		},
		{
			name:     "unknown type with array payload",
			payload:  map[string]any{"id": "in-7", "source": "5511999998888", "type": "sticker", "payload": []any{1, "two"}},
			wantType: "sticker",
			wantText: "[sticker]",
		},
		{
			name:     "text with non-string text",
			payload:  map[string]any{"id": "in-8", "source": "5511999998888", "type": "text", "payload": map[string]any{"text": 42}},
			wantType: "text",
			wantText: "[text]",
		},
		{
			name:     "unknown type",
			payload:  map[string]any{"id": "in-5", "source": "5511999998888", "type": "sticker", "payload": map[string]any{}},
			wantType: "sticker",
			wantText: "[sticker]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/webhook/t1", map[string]any{
				"app":       "t1-WhatsApp",
				"timestamp": 1700000000000,
				"type":      "message",
				"payload":   tt.payload,
			})
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
			}
			if decode(t, rec)["success"] != true {
				t.Fatalf("unexpected body %s", rec.Body.String())
			}

			var m models.Message
			if err := env.db.Where("gupshup_message_id = ?", tt.payload["id"]).First(&m).Error; err != nil {
				t.Fatalf("message not stored: %v", err)
			}
			if m.TenantID != "t1" || m.Direction != models.MESSAGE_DIRECTION_INBOUND || m.Status != models.MESSAGE_STATUS_RECEIVED {
				t.Errorf("unexpected message %+v", m)
			}
			if m.FromNumber != "5511999998888" || m.ToNumber != "917834811114" {
				t.Errorf("from=%q to=%q", m.FromNumber, m.ToNumber)
			}
			if m.MessageType != tt.wantType || m.Content != tt.wantText {
				t.Errorf("type=%q content=%q, want %q %q", m.MessageType, m.Content, tt.wantType, tt.wantText)
			}
		})
	}
}

func TestWebhookMessageEvents(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.seedApp("t1", "917834811114")
	env.seedApp("t2", "917834811115")
	for _, tenant := range []string{"t1", "t2"} {
		msg := models.Message{TenantID: tenant, GupshupMessageID: "gs-1", Direction: models.MESSAGE_DIRECTION_OUTBOUND, MessageType: models.MESSAGE_TYPE_TEXT, Content: "oi", Status: models.MESSAGE_STATUS_SENT}
		if err := env.db.Create(&msg).Error; err != nil {
			t.Fatal(err)
		}
	}
	status := func(tenant string) string {
		var m models.Message
		env.db.Where("tenant_id = ? AND gupshup_message_id = ?", tenant, "gs-1").First(&m)
		return m.Status
	}
	event := func(payload map[string]any) map[string]any {
		return map[string]any{"app": "t1-WhatsApp", "type": "message-event", "payload": payload}
	}

	rec := env.do(http.MethodPost, "/webhook/t1", event(map[string]any{"id": "gs-1", "type": "delivered", "destination": "5511999998888"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if got := status("t1"); got != "delivered" {
		t.Errorf("t1 status = %q, want delivered", got)
	}
	if got := status("t2"); got != models.MESSAGE_STATUS_SENT {
		t.Errorf("t2 status = %q, event leaked across tenants", got)
	}

	// eventType wins over type, gsId stands in for a missing id
	rec = env.do(http.MethodPost, "/webhook/t1", event(map[string]any{"gsId": "gs-1", "eventType": "read", "type": "message-event"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := status("t1"); got != "read" {
		t.Errorf("t1 status = %q, want read", got)
	}

	rec = env.do(http.MethodPost, "/webhook/t1", event(map[string]any{"id": "missing", "type": "failed"}))
	if rec.Code != http.StatusOK || decode(t, rec)["success"] != true {
		t.Fatalf("unknown message id: status = %d body=%s", rec.Code, rec.Body.String())
	}
	if got := status("t1"); got != "read" {
		t.Errorf("t1 status = %q after unrelated event", got)
	}
	if n := env.count(&models.Message{}); n != 2 {
		t.Errorf("messages = %d, want 2", n)
	}
}

func TestWebhookIgnoredCallbacks(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.seedApp("t1", "917834811114")

	bodies := []any{
		map[string]any{"type": "user-event", "payload": map[string]any{"type": "opted-in"}},
		map[string]any{"type": "message"},
		map[string]any{"type": "message", "payload": nil},
		map[string]any{"app": "t1-WhatsApp"},
	}
	for _, body := range bodies {
		rec := env.do(http.MethodPost, "/webhook/t1", body)
		if rec.Code != http.StatusOK {
			t.Errorf("body %v: status = %d", body, rec.Code)
		}
	}
	if n := env.count(&models.Message{}); n != 0 {
		t.Errorf("messages = %d, want 0", n)
	}
}

func TestWebhookErrors(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.seedApp("t1", "917834811114")

	rec := env.do(http.MethodPost, "/webhook/ghost", map[string]any{"type": "message", "payload": map[string]any{"id": "x", "type": "text"}})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown tenant: status = %d", rec.Code)
	}

	rec = env.do(http.MethodPost, "/webhook/t1", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid json: status = %d", rec.Code)
	}
	if n := env.count(&models.Message{}); n != 0 {
		t.Errorf("messages = %d, want 0", n)
	}
}

func TestWebhookSignature(t *testing.T) {
	const secret = "s3cret"
	env := newTestEnv(t, nil, nil, func(c *config.Configuration) { c.Security.WebhookSecret = secret })
	env.seedApp("t1", "917834811114")

	body := `{"type":"message","payload":{"id":"in-1","source":"5511999998888","type":"text","payload":{"text":"oi"}}}`
	valid := "sha256=" + hex.EncodeToString(tools.Sign(secret, []byte(body)))
	other := "sha256=" + hex.EncodeToString(tools.Sign("other", []byte(body)))

	tests := []struct {
		name    string
		headers []string
		want    int
	}{
		{"missing", nil, http.StatusForbidden},
		{"wrong secret", []string{tools.SIGNATURE_HEADER, other}, http.StatusForbidden},
		{"bad format", []string{tools.SIGNATURE_HEADER, "md5=abc"}, http.StatusForbidden},
		{"valid", []string{tools.SIGNATURE_HEADER, valid}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/webhook/t1", body, tt.headers...)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	if n := env.count(&models.Message{}); n != 1 {
		t.Errorf("messages = %d, want only the signed one", n)
	}

	// unsigned callers cannot tell known tenants from unknown ones
	for _, tenant := range []string{"t1", "ghost"} {
		rec := env.do(http.MethodPost, "/webhook/"+tenant, body)
		if rec.Code != http.StatusForbidden {
			t.Errorf("unsigned /webhook/%s: status = %d, want 403", tenant, rec.Code)
		}
	}
	if rec := env.do(http.MethodPost, "/webhook/ghost", body, tools.SIGNATURE_HEADER, valid); rec.Code != http.StatusNotFound {
		t.Errorf("signed /webhook/ghost: status = %d, want 404", rec.Code)
	}
}
