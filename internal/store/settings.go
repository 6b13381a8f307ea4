package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/erazemk/zaloga/internal/locale"
	"github.com/erazemk/zaloga/internal/model"
)

// Setting keys.
const (
	settingJWTSecret  = "jwt_secret"
	settingDateFormat = "date_format"
	settingLanguage   = "language"
)

// GetJWTSecret retrieves the JWT secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// Uses INSERT OR IGNORE + re-SELECT to avoid TOCTOU race on concurrent startup.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		settingJWTSecret, hex.EncodeToString(buf),
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	secret, err := getSetting(ctx, db, settingJWTSecret)
	if err != nil {
		return "", err
	}
	return secret, nil
}

// GetPreferences returns the household display preferences, falling back to
// defaults for anything not yet stored.
func GetPreferences(ctx context.Context, db *sql.DB) (*model.Preferences, error) {
	prefs := &model.Preferences{
		DateFormat: string(locale.DayFirst),
		Language:   locale.DefaultLanguage,
	}

	if v, err := getSetting(ctx, db, settingDateFormat); err != nil {
		return nil, err
	} else if v != "" {
		prefs.DateFormat = v
	}

	if v, err := getSetting(ctx, db, settingLanguage); err != nil {
		return nil, err
	} else if v != "" {
		prefs.Language = v
	}

	return prefs, nil
}

// SetPreferences validates and stores the household display preferences.
func SetPreferences(ctx context.Context, db *sql.DB, prefs model.Preferences) error {
	if !locale.Convention(prefs.DateFormat).Valid() {
		return fmt.Errorf("invalid date format %q", prefs.DateFormat)
	}
	if !locale.Supported(prefs.Language) {
		return fmt.Errorf("unsupported language %q", prefs.Language)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := setSetting(ctx, tx, settingDateFormat, prefs.DateFormat); err != nil {
		return err
	}
	if err := setSetting(ctx, tx, settingLanguage, prefs.Language); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing preferences: %w", err)
	}
	return nil
}

// getSetting returns the stored value for key, or "" if unset.
func getSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying %s: %w", key, err)
	}
	return value, nil
}

func setSetting(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storing %s: %w", key, err)
	}
	return nil
}
