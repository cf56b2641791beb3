package controllers

import (
	"encoding/json"
	"net/http"

	"b24relay/models"
	"b24relay/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type sendRequest struct {
	TenantID string `json:"tenant_id" form:"tenant_id" binding:"required"`
	ToNumber string `json:"to_number" form:"to_number" binding:"required"`
	Message  string `json:"message" form:"message" binding:"required"`
}

// POST /send
// Sends a text through the tenant's GupShup app and logs it as outbound.
// Nothing is logged when GupShup does not answer "submitted".
func (ctl *Controller) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, "Missing required fields", http.StatusBadRequest)
		return
	}

	app, found, err := ctl.findApp(req.TenantID)
	if err != nil {
		zap.S().Errorw("send: lookup", "tenant_id", req.TenantID, "error", err)
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found || !app.CanSend() {
		RespondError(c, "WhatsApp not configured for this tenant", http.StatusBadRequest)
		return
	}

	to, err := tools.FormatPhoneForGupshup(req.ToNumber)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	sender := tools.Sender{AppToken: app.AppToken, Source: app.Phone(), Name: app.AppName}
	result, err := ctl.Sender.SendText(c.Request.Context(), sender, to, req.Message)
	if err != nil {
		var apiErr *tools.APIError
		if errors.As(err, &apiErr) {
			zap.S().Warnw("send: gupshup rejected message", "tenant_id", req.TenantID, "status", apiErr.StatusCode, "body", apiErr.Body)
		} else {
			zap.S().Errorw("send: gupshup call failed", "tenant_id", req.TenantID, "error", err)
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	msg := models.Message{
		TenantID:         req.TenantID,
		GupshupMessageID: result.MessageID,
		Direction:        models.MESSAGE_DIRECTION_OUTBOUND,
		FromNumber:       app.Phone(),
		ToNumber:         to,
		MessageType:      models.MESSAGE_TYPE_TEXT,
		Content:          req.Message,
		Status:           models.MESSAGE_STATUS_SENT,
	}
	if err := ctl.DB.Create(&msg).Error; err != nil {
		zap.S().Errorw("send: message delivered but not logged", "tenant_id", req.TenantID, "gupshup_message_id", result.MessageID, "error", err)
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"success":          true,
		"message":          "Message sent successfully",
		"gupshup_response": json.RawMessage(result.Raw),
	})
}
