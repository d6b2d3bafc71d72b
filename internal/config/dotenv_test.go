package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_ID", "root")
	t.Setenv("KEEPER_INTERVAL_SECONDS", "5")
	t.Setenv("DB_MAX_OPEN_CONNS", "0")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.AdminID != "root" {
		t.Fatalf("expected admin root, got %s", cfg.AdminID)
	}
	if cfg.KeeperInterval() != 5*time.Second {
		t.Fatalf("expected keeper interval 5s, got %s", cfg.KeeperInterval())
	}
	if cfg.DBMaxOpenConns != Default().DBMaxOpenConns {
		t.Fatalf("expected default open conns, got %d", cfg.DBMaxOpenConns)
	}
	if cfg.ArchiveEnabled() {
		t.Fatalf("expected archive disabled without bucket")
	}
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("KEEPER_INTERVAL_SECONDS", "soon")

	cfg := Load()
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestLoadDotEnvKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ARCHIVE_BUCKET=from-file\nARCHIVE_PREFIX=from-file\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("ARCHIVE_BUCKET", "from-env")
	t.Setenv("ARCHIVE_PREFIX", "")
	os.Unsetenv("ARCHIVE_PREFIX")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("ARCHIVE_BUCKET"); got != "from-env" {
		t.Fatalf("expected existing value kept, got %s", got)
	}
	if got := os.Getenv("ARCHIVE_PREFIX"); got != "from-file" {
		t.Fatalf("expected value from file, got %s", got)
	}
}
