package models

import "time"

// Tenant is one Bitrix24 installation of the integration.
// Rows are written once on install and never updated; the refresh token is
// kept as received and never rotated.
type Tenant struct {
	ID                     string     `gorm:"primary_key;type:varchar(36)" json:"id"`
	BitrixDomain           string     `gorm:"column:bitrix_domain;not null;index" json:"bitrix_domain"`
	BitrixAuthID           string     `gorm:"column:bitrix_auth_id;not null" json:"-"`
	BitrixRefreshToken     string     `gorm:"column:bitrix_refresh_token;not null" json:"-"`
	BitrixMemberID         string     `gorm:"column:bitrix_member_id;default:''" json:"bitrix_member_id"`
	BitrixApplicationToken string     `gorm:"column:bitrix_application_token;default:''" json:"-"`
	CreatedAt              *time.Time `json:"created_at"`
	UpdatedAt              *time.Time `json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}

func (tenant Tenant) MissingFields() string {
	if tenant.BitrixDomain == "" {
		return "DOMAIN"
	} else if tenant.BitrixAuthID == "" {
		return "AUTH_ID"
	} else if tenant.BitrixRefreshToken == "" {
		return "REFRESH_ID"
	}
	return ""
}
