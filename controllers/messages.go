package controllers

import (
	"net/http"
	"strings"

	"b24relay/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /messages?tenant_id=...&to_number=...
// Oldest first, no pagination.
func (ctl *Controller) GetMessages(c *gin.Context) {
	tenantID := strings.TrimSpace(c.Query("tenant_id"))
	if tenantID == "" {
		RespondError(c, "Missing tenant_id", http.StatusBadRequest)
		return
	}

	query := ctl.DB.Where("tenant_id = ?", tenantID)
	if to := strings.TrimSpace(c.Query("to_number")); to != "" {
		query = query.Where("to_number = ?", to)
	}

	messages := make([]models.Message, 0)
	if err := query.Order("created_at asc").Order("id asc").Find(&messages).Error; err != nil {
		zap.S().Errorw("messages: query", "tenant_id", tenantID, "error", err)
		RespondError(c, "Failed to retrieve messages", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"success": true, "messages": messages})
}
