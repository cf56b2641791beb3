package logger

import (
	"os"
	"path/filepath"
	"testing"

	"b24relay/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetupWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	cfg := config.Configuration{LogPath: path, LogMode: config.ENV_PRODUCTION}

	flush, err := Setup(cfg)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	zap.S().Infow("tenant installed", "tenant_id", "abc")
	flush()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(b) == 0 {
		t.Fatal("log file is empty")
	}
}

func TestSetupStdout(t *testing.T) {
	flush, err := Setup(config.Configuration{LogMode: config.ENV_DEVELOPMENT})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer flush()
	if !zap.L().Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("development logger should enable debug level")
	}
}
