package controllers

import (
	"net/http"
	"strings"

	"b24relay/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

// ParamTenantID reads the :tenantId path parameter, answering 400 when empty.
func ParamTenantID(c *gin.Context) (string, bool) {
	v := strings.TrimSpace(c.Param("tenantId"))
	if v == "" {
		RespondError(c, "tenantId é obrigatório", http.StatusBadRequest)
		return "", false
	}
	return v, true
}

// findApp loads the GupShup app of a tenant. found is false (with a nil
// error) when the tenant has none.
func (ctl *Controller) findApp(tenantID string) (app models.ProviderApp, found bool, err error) {
	err = ctl.DB.Where("tenant_id = ?", tenantID).First(&app).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return app, false, nil
		}
		return app, false, errors.Wrap(err, "load gupshup app")
	}
	return app, true, nil
}

// companyName is the first label of a Bitrix24 domain ("acme.bitrix24.com" -> "acme").
func companyName(domain string) string {
	return strings.Split(strings.TrimSpace(domain), ".")[0]
}
