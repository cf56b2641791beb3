package controllers

import (
	"io"
	"net/http"
	"strings"

	"b24relay/models"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const SETUP_TYPE_EXISTING = "existing"

type phoneSetupRequest struct {
	PhoneNumber string `json:"phone_number" form:"phone_number"`
	SetupType   string `json:"setup_type" form:"setup_type"`
}

// POST /setup/:tenantId/phone
// setup_type "existing" attaches phone_number to the tenant's app; any
// other value asks GupShup for a new number.
func (ctl *Controller) SetupPhone(c *gin.Context) {
	tenantID, ok := ParamTenantID(c)
	if !ok {
		return
	}

	var req phoneSetupRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	app, found, err := ctl.findApp(tenantID)
	if err != nil {
		zap.S().Errorw("phone setup: lookup", "tenant_id", tenantID, "error", err)
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		RespondError(c, "GupShup app not found for tenant", http.StatusNotFound)
		return
	}

	ctx := c.Request.Context()
	phone := req.PhoneNumber
	if req.SetupType == SETUP_TYPE_EXISTING {
		if phone == "" {
			RespondError(c, "phone_number é obrigatório para setup_type existing", http.StatusBadRequest)
			return
		}
		if err := ctl.Partner.AssignPhoneNumber(ctx, app.GupshupAppID, phone); err != nil {
			zap.S().Errorw("phone setup: assign number", "tenant_id", tenantID, "error", err)
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
	} else {
		phone, err = ctl.Partner.RequestNewPhoneNumber(ctx, app.GupshupAppID)
		if err != nil {
			zap.S().Errorw("phone setup: request number", "tenant_id", tenantID, "error", err)
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	if err := ctl.DB.Model(&models.ProviderApp{}).
		Where("tenant_id = ?", tenantID).
		Updates(map[string]any{
			"phone_number": phone,
			"status":       models.APP_STATUS_PHONE_CONFIGURED,
		}).Error; err != nil {
		zap.S().Errorw("phone setup: update app", "tenant_id", tenantID, "error", err)
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	zap.S().Infow("phone configured", "tenant_id", tenantID, "setup_type", req.SetupType, "phone_number", phone)

	RespondSuccess(c, gin.H{
		"success":      true,
		"phone_number": phone,
		"next_step":    "verification",
	})
}
