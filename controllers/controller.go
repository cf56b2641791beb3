package controllers

import (
	"context"

	"b24relay/config"
	"b24relay/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// PartnerAPI is the subset of the GupShup Partner API the handlers use.
type PartnerAPI interface {
	CreateApp(ctx context.Context, company string, tenantID string) (tools.CreatedApp, error)
	AssignPhoneNumber(ctx context.Context, appID string, phoneNumber string) error
	RequestNewPhoneNumber(ctx context.Context, appID string) (string, error)
}

// MessageSender delivers outbound WhatsApp messages.
type MessageSender interface {
	SendText(ctx context.Context, sender tools.Sender, destination string, text string) (tools.SendResult, error)
}

// Controller carries everything the handlers need. It is built once in
// main and never mutated afterwards.
type Controller struct {
	DB      *gorm.DB
	Conf    config.Configuration
	Partner PartnerAPI
	Sender  MessageSender
}

func New(database *gorm.DB, conf config.Configuration, partner PartnerAPI, sender MessageSender) *Controller {
	return &Controller{DB: database, Conf: conf, Partner: partner, Sender: sender}
}

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"success": false, "error": msg})
}

func RespondErrorDetails(c *gin.Context, msg string, details string, code int) {
	c.JSON(code, gin.H{"success": false, "error": msg, "details": details})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(200, payload)
}
