package models

import "time"

/************************************************
/**** MARK: MESSAGE DIRECTION ****/
/************************************************/
const MESSAGE_DIRECTION_INBOUND = "inbound"
const MESSAGE_DIRECTION_OUTBOUND = "outbound"

/************************************************
/**** MARK: MESSAGE STATUS ****/
/************************************************/
// Status also takes any eventType GupShup reports later (enqueued,
// delivered, read, failed, ...).
const MESSAGE_STATUS_SENT = "sent"
const MESSAGE_STATUS_RECEIVED = "received"

/************************************************
/**** MARK: MESSAGE TYPES ****/
/************************************************/
const MESSAGE_TYPE_TEXT = "text"
const MESSAGE_TYPE_IMAGE = "image"
const MESSAGE_TYPE_VIDEO = "video"
const MESSAGE_TYPE_AUDIO = "audio"
const MESSAGE_TYPE_DOCUMENT = "document"

// Message is one entry of the per-tenant message log.
type Message struct {
	ID               int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID         string     `gorm:"column:tenant_id;type:varchar(36);not null;index" json:"tenant_id"`
	GupshupMessageID string     `gorm:"column:gupshup_message_id;index" json:"gupshup_message_id"`
	Direction        string     `gorm:"not null" json:"direction"`
	FromNumber       string     `gorm:"column:from_number" json:"from_number"`
	ToNumber         string     `gorm:"column:to_number;index" json:"to_number"`
	MessageType      string     `gorm:"column:message_type;not null;default:'text'" json:"message_type"`
	Content          string     `gorm:"type:text" json:"content"`
	Status           string     `gorm:"not null" json:"status"`
	CreatedAt        *time.Time `gorm:"index" json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

func (Message) TableName() string {
	return "messages"
}
