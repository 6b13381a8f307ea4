package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/erazemk/zaloga/internal/config"
)

func TestParseFlagsOverrides(t *testing.T) {
	f, err := parseFlags([]string{"-d", "pantry.sqlite3", "-addr", ":9000", "-u", "Root"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	cfg := &config.Config{}
	cfg.Database.Path = "zaloga.sqlite3"
	cfg.Server.Addr = ":8080"
	cfg.Log.Path = "keep.log"
	f.apply(cfg)

	if cfg.Database.Path != "pantry.sqlite3" || cfg.Server.Addr != ":9000" || cfg.Auth.AdminUser != "Root" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Log.Path != "keep.log" {
		t.Errorf("unset flag overrode log path: %q", cfg.Log.Path)
	}
}

func TestParseFlagsRejectsArguments(t *testing.T) {
	if _, err := parseFlags([]string{"serve"}); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestLevelRouter(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(newLevelRouter(&out, &errOut, slog.LevelInfo))

	logger.Debug("hidden")
	logger.Info("hello")
	logger.Warn("careful")
	logger.Error("broken")

	if strings.Contains(out.String(), "hidden") {
		t.Error("debug record should be dropped at info level")
	}
	if !strings.Contains(out.String(), "hello") || !strings.Contains(out.String(), "careful") {
		t.Errorf("expected info and warn on stdout, got %q", out.String())
	}
	if strings.Contains(out.String(), "broken") || !strings.Contains(errOut.String(), "broken") {
		t.Errorf("expected error only on stderr, got stdout %q stderr %q", out.String(), errOut.String())
	}
}

func TestGeneratePassword(t *testing.T) {
	a, err := generatePassword(16)
	if err != nil {
		t.Fatalf("generatePassword: %v", err)
	}
	b, _ := generatePassword(16)
	if len(a) != 16 || a == b {
		t.Errorf("expected distinct 16-character passwords, got %q and %q", a, b)
	}
}
