package controllers

import (
	"net/http"
	"strings"

	"b24relay/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// installRequest is the Bitrix24 install callback. It arrives either as
// JSON or form data; AUTH_EXPIRES is sent too but not kept.
type installRequest struct {
	Domain           string `json:"DOMAIN" form:"DOMAIN"`
	AuthID           string `json:"AUTH_ID" form:"AUTH_ID"`
	RefreshID        string `json:"REFRESH_ID" form:"REFRESH_ID"`
	MemberID         string `json:"member_id" form:"member_id"`
	ApplicationToken string `json:"APPLICATION_TOKEN" form:"APPLICATION_TOKEN"`
}

// POST /bitrix24/install
// Provisions the GupShup app first and only then writes the tenant and app
// rows in one short transaction. If the Partner API call or any insert
// fails nothing is persisted.
func (ctl *Controller) Install(c *gin.Context) {
	var req installRequest
	if err := c.ShouldBind(&req); err != nil {
		zap.S().Debugw("install: could not bind body", "content_type", c.ContentType(), "error", err)
	}
	if strings.TrimSpace(req.Domain) == "" {
		// Bitrix24 também manda DOMAIN na query string
		req.Domain = c.Query("DOMAIN")
	}

	tenant := models.Tenant{
		ID:                     uuid.NewString(),
		BitrixDomain:           strings.TrimSpace(req.Domain),
		BitrixAuthID:           strings.TrimSpace(req.AuthID),
		BitrixRefreshToken:     strings.TrimSpace(req.RefreshID),
		BitrixMemberID:         strings.TrimSpace(req.MemberID),
		BitrixApplicationToken: strings.TrimSpace(req.ApplicationToken),
	}
	if missing := tenant.MissingFields(); missing != "" {
		zap.S().Infow("install: missing field", "field", missing)
		RespondError(c, "Missing required fields: DOMAIN, AUTH_ID, REFRESH_ID", http.StatusBadRequest)
		return
	}

	created, err := ctl.Partner.CreateApp(c.Request.Context(), companyName(tenant.BitrixDomain), tenant.ID)
	if err != nil {
		zap.S().Errorw("install: create gupshup app", "tenant_id", tenant.ID, "domain", tenant.BitrixDomain, "error", err)
		RespondErrorDetails(c, "Installation failed", err.Error(), http.StatusInternalServerError)
		return
	}

	app := models.ProviderApp{
		TenantID:     tenant.ID,
		GupshupAppID: created.AppID,
		AppToken:     created.AppToken,
		AppName:      created.AppName,
		Status:       models.APP_STATUS_CREATED,
	}
	if err := ctl.saveInstall(&tenant, &app); err != nil {
		// o app já existe na GupShup sem tenant local
		zap.S().Errorw("install: persist tenant", "tenant_id", tenant.ID, "gupshup_app_id", app.GupshupAppID, "error", err)
		RespondErrorDetails(c, "Installation failed", err.Error(), http.StatusInternalServerError)
		return
	}

	zap.S().Infow("tenant installed", "tenant_id", tenant.ID, "domain", tenant.BitrixDomain, "gupshup_app_id", app.GupshupAppID)

	RespondSuccess(c, gin.H{
		"success":      true,
		"tenant_id":    tenant.ID,
		"redirect_url": ctl.Conf.BaseURL + "/setup/" + tenant.ID,
	})
}

func (ctl *Controller) saveInstall(tenant *models.Tenant, app *models.ProviderApp) error {
	tx := ctl.DB.Begin()
	if err := tx.Error; err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	if err := tx.Create(tenant).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "create tenant")
	}
	if err := tx.Create(app).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "create gupshup app row")
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "commit")
	}
	return nil
}
