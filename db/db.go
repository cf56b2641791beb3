package db

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"b24relay/config"
	"b24relay/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Connect opens the database described by conf (postgres or sqlite3) and,
// when conf.AutoMigrate is set, brings the schema up to date.
func Connect(conf config.Configuration) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch conf.Database {
	case "postgres", "postgresql":
		zap.S().Info("Utilizando conexão com o postgresql...")
		db, err = gorm.Open("postgres", PostgresDSN(conf))
	default:
		zap.S().Info("Utilizando conexão com o sqlite3...")
		path := conf.SqlitePath
		if path == "" {
			path = "db/database.db"
		}
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, errors.Wrap(err, "create sqlite dir")
			}
		}
		db, err = gorm.Open("sqlite3", path)
	}
	if err != nil {
		zap.S().Errorw("Got error when connect database", "error", err)
		return nil, errors.Wrap(err, "open database")
	}

	if db.Dialect().GetName() == "sqlite3" {
		// sqlite: uma conexão só, evita "database is locked" e mantém :memory: consistente
		db.DB().SetMaxOpenConns(1)
	} else {
		db.DB().SetMaxOpenConns(8)
		db.DB().SetMaxIdleConns(2)
		db.DB().SetConnMaxLifetime(time.Hour)
	}

	db.SetLogger(gormLogger{})
	db.LogMode(!conf.IsProduction())

	if conf.AutoMigrate {
		if err := Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates or updates the tenants, gupshup_apps and messages tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.Tables...).Error; err != nil {
		return errors.Wrap(err, "automigrate")
	}
	if db.Dialect().GetName() != "postgres" {
		return nil
	}
	fks := []struct {
		model interface{}
		name  string
	}{
		{&models.ProviderApp{}, "gupshup_apps_tenant_id_tenants_id_foreign"},
		{&models.Message{}, "messages_tenant_id_tenants_id_foreign"},
	}
	for _, fk := range fks {
		exists, err := constraintExists(db, fk.name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := db.Model(fk.model).AddForeignKey("tenant_id", "tenants(id)", "CASCADE", "CASCADE").Error; err != nil {
			return errors.Wrap(err, "add foreign key")
		}
	}
	return nil
}

func constraintExists(db *gorm.DB, name string) (bool, error) {
	var count int
	row := db.Raw("SELECT count(*) FROM information_schema.table_constraints WHERE constraint_name = ?", name).Row()
	if err := row.Scan(&count); err != nil {
		return false, errors.Wrapf(err, "look up constraint %s", name)
	}
	return count > 0, nil
}

// PostgresDSN builds the connection string. DATABASE_URL wins over the
// discrete DB_* settings. When no sslmode is given, production connects
// with sslmode=require (encrypted, certificate not verified) and every
// other environment with sslmode=disable.
func PostgresDSN(conf config.Configuration) string {
	sslmode := "disable"
	if conf.IsProduction() {
		sslmode = "require"
	}

	raw := strings.TrimSpace(conf.DatabaseURL)
	if raw == "" {
		path := "host=" + conf.DbHost + " port=" + conf.DbPort
		path += " user=" + conf.DbUser + " dbname=" + conf.DbName
		path += " password=" + conf.DbPass
		return path + " sslmode=" + sslmode
	}

	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		u, err := url.Parse(raw)
		if err != nil {
			return raw
		}
		q := u.Query()
		if q.Get("sslmode") == "" {
			q.Set("sslmode", sslmode)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}

	if strings.Contains(raw, "sslmode=") {
		return raw
	}
	return raw + " sslmode=" + sslmode
}

// gormLogger routes gorm's SQL log through zap.
type gormLogger struct{}

func (gormLogger) Print(v ...interface{}) {
	zap.S().Debug(v...)
}
