package store

import (
	"context"
	"testing"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/locale"
	"github.com/erazemk/zaloga/internal/model"
)

func TestGetJWTSecret_GeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// First call should generate a secret.
	secret1, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	// Second call should return the same secret.
	secret2, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestPreferencesDefaults(t *testing.T) {
	database := db.NewTestDB(t)

	prefs, err := GetPreferences(context.Background(), database)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if prefs.DateFormat != string(locale.DayFirst) {
		t.Errorf("expected default date format day_first, got %q", prefs.DateFormat)
	}
	if prefs.Language != locale.English {
		t.Errorf("expected default language en, got %q", prefs.Language)
	}
}

func TestSetPreferences(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	want := model.Preferences{DateFormat: string(locale.MonthFirst), Language: locale.Slovenian}
	if err := SetPreferences(ctx, database, want); err != nil {
		t.Fatalf("SetPreferences: %v", err)
	}

	got, err := GetPreferences(ctx, database)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if *got != want {
		t.Errorf("expected %+v, got %+v", want, *got)
	}

	if err := SetPreferences(ctx, database, model.Preferences{DateFormat: "ymd", Language: "en"}); err == nil {
		t.Error("expected error for invalid date format")
	}
	if err := SetPreferences(ctx, database, model.Preferences{DateFormat: "day_first", Language: "xx"}); err == nil {
		t.Error("expected error for unsupported language")
	}
}
