package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/erazemk/zaloga/internal/api"
	"github.com/erazemk/zaloga/internal/backup"
	"github.com/erazemk/zaloga/internal/barcode"
	"github.com/erazemk/zaloga/internal/config"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/store"
)

// flags are command-line overrides. Empty values leave the configuration as
// loaded from file and environment.
type flags struct {
	configPath string
	dbPath     string
	addr       string
	adminUser  string
	logPath    string
}

func parseFlags(args []string) (flags, error) {
	fs := flag.NewFlagSet("zaloga", flag.ContinueOnError)

	var f flags
	fs.StringVar(&f.configPath, "config", "", "")
	fs.StringVar(&f.configPath, "c", "", "")
	fs.StringVar(&f.dbPath, "db", "", "")
	fs.StringVar(&f.dbPath, "d", "", "")
	fs.StringVar(&f.addr, "addr", "", "")
	fs.StringVar(&f.addr, "a", "", "")
	fs.StringVar(&f.adminUser, "user", "", "")
	fs.StringVar(&f.adminUser, "u", "", "")
	fs.StringVar(&f.logPath, "log", "", "")
	fs.StringVar(&f.logPath, "l", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: zaloga [flags]

Flags:
  -c, -config <path>      YAML configuration file (default: environment only)
  -d, -db <path>          SQLite database path (default: zaloga.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -u, -user <name>        admin username on first run (default: Admin)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit

Environment:
`+config.Usage())
	}

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return f, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return f, nil
}

// apply overrides cfg with the flags that were given.
func (f flags) apply(cfg *config.Config) {
	if f.dbPath != "" {
		cfg.Database.Path = f.dbPath
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.adminUser != "" {
		cfg.Auth.AdminUser = f.adminUser
	}
	if f.logPath != "" {
		cfg.Log.Path = f.logPath
	}
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	f.apply(cfg)

	// INFO/WARN go to stdout, ERROR to stderr, optionally also to a file.
	closeLog, err := setupLogger(cfg.Log.Path, cfg.Log.SlogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	// Check if DB exists, auto-init if not.
	if _, err := os.Stat(cfg.Database.Path); os.IsNotExist(err) {
		database, password, err := initDatabase(cfg.Database.Path, cfg.Auth.AdminUser)
		if err != nil {
			slog.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		database.Close()

		printInitResult(cfg.Database.Path, cfg.Auth.AdminUser, password)
		fmt.Println()
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", cfg.Database.Path)

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(context.Background(), database)
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}

	backups, err := backup.New(cfg.Backup.Provider, cfg.Backup.Dir)
	if err != nil {
		slog.Error("failed to set up backups", "error", err)
		os.Exit(1)
	}
	if cfg.Backup.Provider != backup.ProviderDir {
		slog.Warn("backup provider has no integration, exports will fail", "provider", cfg.Backup.Provider)
	}

	router := api.NewRouter(database, jwtSecret, api.Options{
		TokenTTL: cfg.Auth.TokenTTL,
		Photo: imaging.Options{
			MaxDimension: cfg.Photo.MaxDimension,
			Quality:      cfg.Photo.Quality,
		},
		Barcode: barcode.NewStub(),
		Backup:  backups,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.LoggingMiddleware(router),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go purgeRevokedTokens(ctx, database, cfg.Auth.PurgeInterval)

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}
