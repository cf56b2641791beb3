package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	ENV_PRODUCTION  = "production"
	ENV_DEVELOPMENT = "development"
)

// Configuration is built once at startup and handed to every component.
// Nothing reads it from ambient state after main returns from Get.
type Configuration struct {
	ApiPort     string `json:"api_port" env:"PORT"`
	Environment string `json:"environment" env:"APP_ENV"`
	LogPath     string `json:"log_path" env:"LOG_PATH"`
	LogMode     string `json:"log_mode" env:"LOG_MODE"` // "production" ou "development"

	Database    string `json:"database" env:"DB_DIALECT"` // "sqlite3" ou "postgres"
	DatabaseURL string `json:"database_url" env:"DATABASE_URL"`
	DbHost      string `json:"db_host" env:"DB_HOST"`
	DbPort      string `json:"db_port" env:"DB_PORT"`
	DbUser      string `json:"db_user" env:"DB_USER"`
	DbName      string `json:"db_name" env:"DB_NAME"`
	DbPass      string `json:"db_pass" env:"DB_PASS"`
	SqlitePath  string `json:"sqlite_path" env:"SQLITE_PATH"`
	AutoMigrate bool   `json:"automigrate" env:"AUTOMIGRATE"`

	// BaseURL is the public address of this service, used to build the
	// webhook URL handed to GupShup and the setup redirect for Bitrix24.
	BaseURL string `json:"base_url" env:"BASE_URL"`

	Gupshup struct {
		PartnerAPIKey  string        `json:"partner_api_key" env:"GUPSHUP_PARTNER_API_KEY"`
		PartnerAPIBase string        `json:"partner_api_base" env:"GUPSHUP_PARTNER_API_BASE"`
		MessageAPIURL  string        `json:"message_api_url" env:"GUPSHUP_MESSAGE_API_URL"`
		SendTimeout    time.Duration `json:"-" env:"SEND_TIMEOUT"`
		PartnerTimeout time.Duration `json:"-" env:"PARTNER_TIMEOUT"`

		// no arquivo JSON os timeouts vão em segundos
		SendTimeoutSeconds    int `json:"send_timeout_seconds"`
		PartnerTimeoutSeconds int `json:"partner_timeout_seconds"`
	} `json:"gupshup"`

	Security struct {
		WebhookSecret string `json:"webhook_secret" env:"WEBHOOK_SECRET"`
		ApiKey        string `json:"api_key" env:"API_KEY"`
	} `json:"security"`
}

// IsProduction reports whether the service runs with production settings.
func (c Configuration) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), ENV_PRODUCTION)
}

func defaults() Configuration {
	var c Configuration
	c.ApiPort = "8080"
	c.Environment = ENV_DEVELOPMENT
	c.SqlitePath = "db/database.db"
	c.AutoMigrate = true
	c.BaseURL = "https://your-server.com"
	c.Gupshup.PartnerAPIBase = "https://api.gupshup.io/partner/v1"
	c.Gupshup.MessageAPIURL = "https://api.gupshup.io/sm/api/v1/msg"
	c.Gupshup.SendTimeout = 10 * time.Second
	c.Gupshup.PartnerTimeout = 30 * time.Second
	return c
}

// Get loads the configuration. Sources, lowest precedence first: built-in
// defaults, the optional JSON file at path, .env, process environment.
func Get(path string) (Configuration, error) {
	c := defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(b, &c); err != nil {
				return c, errors.Wrapf(err, "parse %s", path)
			}
			if c.Gupshup.SendTimeoutSeconds > 0 {
				c.Gupshup.SendTimeout = time.Duration(c.Gupshup.SendTimeoutSeconds) * time.Second
			}
			if c.Gupshup.PartnerTimeoutSeconds > 0 {
				c.Gupshup.PartnerTimeout = time.Duration(c.Gupshup.PartnerTimeoutSeconds) * time.Second
			}
		case !os.IsNotExist(err):
			return c, errors.Wrapf(err, "read %s", path)
		}
	}

	// .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load()

	if err := env.Parse(&c); err != nil {
		return c, errors.Wrap(err, "parse environment")
	}

	c.normalize()
	return c, nil
}

func (c *Configuration) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.Gupshup.PartnerAPIBase = strings.TrimRight(strings.TrimSpace(c.Gupshup.PartnerAPIBase), "/")

	if c.Database == "" {
		if c.DatabaseURL != "" {
			c.Database = "postgres"
		} else {
			c.Database = "sqlite3"
		}
	}
	if c.LogMode == "" {
		if c.IsProduction() {
			c.LogMode = ENV_PRODUCTION
		} else {
			c.LogMode = ENV_DEVELOPMENT
		}
	}
	if c.Gupshup.SendTimeout <= 0 {
		c.Gupshup.SendTimeout = 10 * time.Second
	}
	if c.Gupshup.PartnerTimeout <= 0 {
		c.Gupshup.PartnerTimeout = 30 * time.Second
	}
}
