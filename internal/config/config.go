// Package config loads server settings from an optional YAML file,
// ZALOGA_* environment variables and built-in defaults.
package config

import (
	"log/slog"
	"strings"
	"time"
)

// Config is the root server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Photo    PhotoConfig    `yaml:"photo"`
	Backup   BackupConfig   `yaml:"backup"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr              string        `yaml:"addr"                env:"ZALOGA_ADDR"                       env-default:":8080"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"ZALOGA_SERVER_READ_HEADER_TIMEOUT" env-default:"10s"`
	ReadTimeout       time.Duration `yaml:"read_timeout"        env:"ZALOGA_SERVER_READ_TIMEOUT"        env-default:"30s"`
	WriteTimeout      time.Duration `yaml:"write_timeout"       env:"ZALOGA_SERVER_WRITE_TIMEOUT"       env-default:"60s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"        env:"ZALOGA_SERVER_IDLE_TIMEOUT"        env-default:"120s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"    env:"ZALOGA_SERVER_SHUTDOWN_TIMEOUT"    env-default:"5s"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"ZALOGA_DB" env-default:"zaloga.sqlite3"`
}

// AuthConfig holds token and bootstrap account settings.
type AuthConfig struct {
	AdminUser     string        `yaml:"admin_user"     env:"ZALOGA_ADMIN_USER"     env-default:"Admin"`
	TokenTTL      time.Duration `yaml:"token_ttl"      env:"ZALOGA_TOKEN_TTL"      env-default:"168h"`
	PurgeInterval time.Duration `yaml:"purge_interval" env:"ZALOGA_PURGE_INTERVAL" env-default:"1h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"ZALOGA_LOG_LEVEL" env-default:"info"`
	Path  string `yaml:"path"  env:"ZALOGA_LOG"`
}

// PhotoConfig controls item photo processing.
type PhotoConfig struct {
	MaxDimension int `yaml:"max_dimension" env:"ZALOGA_PHOTO_MAX_DIMENSION" env-default:"1024"`
	Quality      int `yaml:"quality"       env:"ZALOGA_PHOTO_QUALITY"       env-default:"85"`
}

// BackupConfig selects where snapshots are written.
type BackupConfig struct {
	Provider string `yaml:"provider" env:"ZALOGA_BACKUP_PROVIDER" env-default:"dir"`
	Dir      string `yaml:"dir"      env:"ZALOGA_BACKUP_DIR"      env-default:"backups"`
}

// SlogLevel maps the configured level name to a slog.Level.
// Unknown names have already been rejected by Validate.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
