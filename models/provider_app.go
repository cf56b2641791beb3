package models

import "time"

const (
	APP_STATUS_CREATED          = "created"
	APP_STATUS_PHONE_CONFIGURED = "phone_configured"
)

// ProviderApp stores the GupShup app provisioned for a tenant.
// One row per tenant (unique tenant_id). PhoneNumber stays nil until the
// phone setup step runs.
type ProviderApp struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID     string     `gorm:"column:tenant_id;type:varchar(36);not null;unique_index" json:"tenant_id"`
	GupshupAppID string     `gorm:"column:gupshup_app_id;not null" json:"gupshup_app_id"`
	AppToken     string     `gorm:"column:gupshup_app_token" json:"-"`
	AppName      string     `gorm:"column:app_name" json:"app_name"`
	PhoneNumber  *string    `gorm:"column:phone_number" json:"phone_number"`
	Status       string     `gorm:"column:status;not null;default:'created'" json:"status"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func (ProviderApp) TableName() string {
	return "gupshup_apps"
}

// Phone returns the configured number or "" when setup has not run yet.
func (app ProviderApp) Phone() string {
	if app.PhoneNumber == nil {
		return ""
	}
	return *app.PhoneNumber
}

// CanSend reports whether the app has everything the send API needs.
func (app ProviderApp) CanSend() bool {
	return app.AppToken != "" && app.Phone() != ""
}
