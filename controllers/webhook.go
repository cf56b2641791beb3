package controllers

import (
	"encoding/json"
	"net/http"

	"b24relay/models"
	"b24relay/tools"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// POST /webhook/:tenantId
// GupShup callbacks for one tenant: inbound messages are appended to the
// log, message-events update the status of an earlier message. Unknown
// callback types are acknowledged and ignored.
func (ctl *Controller) WebhookUpdate(c *gin.Context) {
	tenantID, ok := ParamTenantID(c)
	if !ok {
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		RespondError(c, "failed to read body", http.StatusBadRequest)
		return
	}

	// assinatura antes do lookup do tenant
	if secret := ctl.Conf.Security.WebhookSecret; secret != "" {
		if ok, reason := tools.VerifySignature(secret, c.GetHeader(tools.SIGNATURE_HEADER), raw); !ok {
			zap.S().Warnw("webhook: rejected signature", "tenant_id", tenantID, "reason", reason)
			RespondError(c, "forbidden: "+reason, http.StatusForbidden)
			return
		}
	}

	app, found, err := ctl.findApp(tenantID)
	if err != nil {
		zap.S().Errorw("webhook: lookup", "tenant_id", tenantID, "error", err)
		RespondError(c, "Webhook processing failed", http.StatusInternalServerError)
		return
	}
	if !found {
		RespondError(c, "GupShup app not found for tenant", http.StatusNotFound)
		return
	}

	var envelope tools.WebhookEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		RespondError(c, "invalid json", http.StatusBadRequest)
		return
	}

	switch {
	case envelope.Type == tools.WEBHOOK_TYPE_MESSAGE && envelope.HasPayload():
		err = ctl.storeInbound(tenantID, app, envelope)
	case envelope.Type == tools.WEBHOOK_TYPE_MESSAGE_EVENT && envelope.HasPayload():
		err = ctl.applyMessageEvent(tenantID, envelope)
	default:
		zap.S().Debugw("webhook: ignored callback", "tenant_id", tenantID, "type", envelope.Type)
	}
	if err != nil {
		zap.S().Errorw("webhook: processing failed", "tenant_id", tenantID, "type", envelope.Type, "error", err)
		RespondError(c, "Webhook processing failed", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"success": true})
}

func (ctl *Controller) storeInbound(tenantID string, app models.ProviderApp, envelope tools.WebhookEnvelope) error {
	in, err := envelope.InboundMessage()
	if err != nil {
		return err
	}

	text, known := tools.DisplayText(in.Type, in.Payload)
	if !known {
		zap.S().Infow("webhook: unrecognized message type", "tenant_id", tenantID, "type", in.Type, "id", in.ID)
	}

	msg := models.Message{
		TenantID:         tenantID,
		GupshupMessageID: in.ID,
		Direction:        models.MESSAGE_DIRECTION_INBOUND,
		FromNumber:       in.From(),
		ToNumber:         app.Phone(),
		MessageType:      in.Type,
		Content:          text,
		Status:           models.MESSAGE_STATUS_RECEIVED,
	}
	return ctl.DB.Create(&msg).Error
}

// applyMessageEvent updates the status of the message the event refers to.
// An id with no matching row in this tenant's log changes nothing.
func (ctl *Controller) applyMessageEvent(tenantID string, envelope tools.WebhookEnvelope) error {
	ev, err := envelope.MessageEvent()
	if err != nil {
		return err
	}

	id, status := ev.MessageID(), ev.Status()
	if id == "" || status == "" {
		zap.S().Infow("webhook: message-event without id or status", "tenant_id", tenantID, "id", id, "status", status)
		return nil
	}

	res := ctl.DB.Model(&models.Message{}).
		Where("gupshup_message_id = ? AND tenant_id = ?", id, tenantID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		zap.S().Debugw("webhook: message-event for unknown message", "tenant_id", tenantID, "id", id, "status", status)
	}
	return nil
}
