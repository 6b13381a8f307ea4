package config

import (
	"fmt"
	"strings"

	"github.com/erazemk/zaloga/internal/backup"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate performs rule checks on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0 (got %s)", c.Server.ShutdownTimeout)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	if c.Auth.AdminUser == "" {
		return fmt.Errorf("auth.admin_user must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0 (got %s)", c.Auth.TokenTTL)
	}
	if c.Auth.PurgeInterval <= 0 {
		return fmt.Errorf("auth.purge_interval must be > 0 (got %s)", c.Auth.PurgeInterval)
	}

	if !logLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}

	if c.Photo.MaxDimension < 64 {
		return fmt.Errorf("photo.max_dimension must be >= 64 (got %d)", c.Photo.MaxDimension)
	}
	if c.Photo.Quality < 1 || c.Photo.Quality > 100 {
		return fmt.Errorf("photo.quality must be in 1..100 (got %d)", c.Photo.Quality)
	}

	if !backup.KnownProvider(c.Backup.Provider) {
		return fmt.Errorf("backup.provider: unknown provider %q", c.Backup.Provider)
	}
	if c.Backup.Provider == backup.ProviderDir && c.Backup.Dir == "" {
		return fmt.Errorf("backup.dir must not be empty for the dir provider")
	}

	return nil
}
