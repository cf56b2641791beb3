package router

import (
	"b24relay/controllers"
	"b24relay/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Initialize wires all routes and middlewares.
// Bitrix24 install, GupShup webhooks and health are public; the routes the
// tenant side calls go through APIKeyRequired (no-op without API_KEY).
func Initialize(r *gin.Engine, ctl *controllers.Controller) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(Logger())

	r.GET("/health", controllers.Health)

	// Bitrix24
	r.POST("/bitrix24/install", ctl.Install)

	// GupShup -> backend, multi-tenant: /webhook/:tenantId
	r.POST("/webhook/:tenantId", ctl.WebhookUpdate)

	tenant := r.Group("")
	tenant.Use(controllers.APIKeyRequired(ctl.Conf.Security.ApiKey))
	tenant.POST("/setup/:tenantId/phone", ctl.SetupPhone)
	tenant.POST("/send", ctl.Send)
	tenant.GET("/messages", ctl.GetMessages)

	zap.S().Info("Routes initialized")
}
