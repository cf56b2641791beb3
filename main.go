package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"b24relay/config"
	"b24relay/controllers"
	"b24relay/db"
	"b24relay/logger"
	"b24relay/router"
	"b24relay/tools"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// =====================
// ENV esperadas
// =====================
//
// Server
// - PORT                        (ex: 8080)
// - APP_ENV                     (production liga sslmode=require no postgres e logs JSON)
// - BASE_URL                    (URL pública deste serviço; usada no webhook da GupShup e no redirect do Bitrix24)
// - API_KEY                     (opcional; protege /setup, /send e /messages)
// - WEBHOOK_SECRET              (opcional; exige X-Hub-Signature-256 nos webhooks)
//
// Database
// - DATABASE_URL                (postgres://...; sem ela usa sqlite em SQLITE_PATH)
//
// GupShup
// - GUPSHUP_PARTNER_API_KEY
// - GUPSHUP_PARTNER_API_BASE    (default https://api.gupshup.io/partner/v1)
// - GUPSHUP_MESSAGE_API_URL     (default https://api.gupshup.io/sm/api/v1/msg)
// - SEND_TIMEOUT / PARTNER_TIMEOUT
//
// =====================

func main() {
	configPath := flag.String("config", "config.json", "optional JSON configuration file")
	flag.Parse()

	conf, err := config.Get(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	flush, err := logger.Setup(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer flush()

	if conf.Gupshup.PartnerAPIKey == "" {
		zap.S().Warn("GUPSHUP_PARTNER_API_KEY not set; Partner API calls will be rejected")
	}
	if conf.Security.WebhookSecret == "" {
		zap.S().Warn("WEBHOOK_SECRET not set; webhook signatures are not verified")
	}

	database, err := db.Connect(conf)
	if err != nil {
		zap.S().Fatalw("database connection failed", "error", err)
	}
	defer database.Close()

	partner := tools.NewPartnerClient(conf.Gupshup.PartnerAPIKey, conf.Gupshup.PartnerAPIBase, conf.BaseURL, conf.Gupshup.PartnerTimeout)
	sender := tools.NewMessageClient(conf.Gupshup.MessageAPIURL, conf.Gupshup.SendTimeout)
	ctl := controllers.New(database, conf, partner, sender)

	if conf.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	router.Initialize(r, ctl)

	srv := &http.Server{
		Addr:              ":" + conf.ApiPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.S().Infof("Server running on port %s", conf.ApiPort)
		zap.S().Infof("Health check: http://localhost:%s/health", conf.ApiPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.S().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.S().Errorw("graceful shutdown failed", "error", err)
	}
}
