package config

import (
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                     string `env:"PORT"`
	DatabaseURL              string `env:"DATABASE_URL"`
	DBMaxOpenConns           int    `env:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int    `env:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeSeconds int    `env:"DB_CONN_MAX_LIFETIME_SECONDS"`
	DBConnMaxIdleTimeSeconds int    `env:"DB_CONN_MAX_IDLE_SECONDS"`

	// AdminID initializes the registry on first boot when no registry exists.
	AdminID string `env:"ADMIN_ID"`

	KeeperID              string `env:"KEEPER_ID"`
	KeeperIntervalSeconds int    `env:"KEEPER_INTERVAL_SECONDS"`
	KeeperEnabled         bool   `env:"KEEPER_ENABLED"`

	ArchiveBucket          string `env:"ARCHIVE_BUCKET"`
	ArchiveRegion          string `env:"ARCHIVE_REGION"`
	ArchiveEndpoint        string `env:"ARCHIVE_ENDPOINT"`
	ArchiveAccessKeyID     string `env:"ARCHIVE_ACCESS_KEY_ID"`
	ArchiveSecretAccessKey string `env:"ARCHIVE_SECRET_ACCESS_KEY"`
	ArchivePrefix          string `env:"ARCHIVE_PREFIX"`
}

func Default() Config {
	return Config{
		Port:                     "8080",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
		KeeperID:                 "keeper",
		KeeperIntervalSeconds:    30,
		KeeperEnabled:            true,
		ArchiveRegion:            "auto",
		ArchivePrefix:            "reports",
	}
}

// Load reads the environment over Default. Values that fail to parse or
// are out of range keep their defaults.
func Load() Config {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		log.Printf("config parse failed, using defaults error=%v", err)
		return Default()
	}
	def := Default()
	if cfg.Port == "" {
		cfg.Port = def.Port
	}
	if cfg.DBMaxOpenConns <= 0 {
		cfg.DBMaxOpenConns = def.DBMaxOpenConns
	}
	if cfg.DBMaxIdleConns <= 0 {
		cfg.DBMaxIdleConns = def.DBMaxIdleConns
	}
	if cfg.DBConnMaxLifetimeSeconds <= 0 {
		cfg.DBConnMaxLifetimeSeconds = def.DBConnMaxLifetimeSeconds
	}
	if cfg.DBConnMaxIdleTimeSeconds <= 0 {
		cfg.DBConnMaxIdleTimeSeconds = def.DBConnMaxIdleTimeSeconds
	}
	if cfg.KeeperID == "" {
		cfg.KeeperID = def.KeeperID
	}
	if cfg.KeeperIntervalSeconds <= 0 {
		cfg.KeeperIntervalSeconds = def.KeeperIntervalSeconds
	}
	if cfg.ArchiveRegion == "" {
		cfg.ArchiveRegion = def.ArchiveRegion
	}
	return cfg
}

func (c Config) KeeperInterval() time.Duration {
	return time.Duration(c.KeeperIntervalSeconds) * time.Second
}

func (c Config) ArchiveEnabled() bool {
	return c.ArchiveBucket != ""
}
