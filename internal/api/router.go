package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/zaloga/internal/backup"
	"github.com/erazemk/zaloga/internal/barcode"
	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/model"
)

// Options configure the API beyond the database and signing secret.
// Zero values select defaults.
type Options struct {
	TokenTTL time.Duration
	Photo    imaging.Options
	Barcode  barcode.Reader
	Backup   backup.FileStore
	// Now is the clock used for the default reference date.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Barcode == nil {
		o.Barcode = barcode.NewStub()
	}
	if o.Backup == nil {
		o.Backup = backup.Unavailable{Provider: "none"}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, opts Options) http.Handler {
	opts = opts.withDefaults()
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, TokenTTL: opts.TokenTTL}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db, Photo: opts.Photo, Now: opts.Now}
	historyHandler := &HistoryHandler{DB: db}
	shoppingHandler := &ShoppingHandler{DB: db}
	locationsHandler := &LocationsHandler{DB: db}
	productsHandler := &ProductsHandler{DB: db, Reader: opts.Barcode}
	preferencesHandler := &PreferencesHandler{DB: db}
	backupHandler := &BackupHandler{DB: db, Store: opts.Backup, Now: opts.Now}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Items (all members).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("POST /api/items/{id}/consume", authMW(http.HandlerFunc(itemsHandler.Consume)))
	mux.Handle("PUT /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))
	mux.Handle("GET /api/reminders", authMW(http.HandlerFunc(itemsHandler.Reminders)))

	// History and statistics.
	mux.Handle("GET /api/history", authMW(http.HandlerFunc(historyHandler.List)))
	mux.Handle("GET /api/stats", authMW(http.HandlerFunc(historyHandler.Stats)))

	// Shopping list.
	mux.Handle("GET /api/shopping", authMW(http.HandlerFunc(shoppingHandler.List)))
	mux.Handle("POST /api/shopping", authMW(http.HandlerFunc(shoppingHandler.Create)))
	mux.Handle("POST /api/shopping/clear", authMW(http.HandlerFunc(shoppingHandler.Clear)))
	mux.Handle("PUT /api/shopping/{id}", authMW(http.HandlerFunc(shoppingHandler.Update)))
	mux.Handle("DELETE /api/shopping/{id}", authMW(http.HandlerFunc(shoppingHandler.Delete)))

	// Locations: read (all), write (admin).
	mux.Handle("GET /api/locations", authMW(http.HandlerFunc(locationsHandler.List)))
	mux.Handle("POST /api/locations", authMW(requireAdmin(http.HandlerFunc(locationsHandler.Create))))
	mux.Handle("PUT /api/locations/{id}", authMW(requireAdmin(http.HandlerFunc(locationsHandler.Update))))
	mux.Handle("DELETE /api/locations/{id}", authMW(requireAdmin(http.HandlerFunc(locationsHandler.Delete))))

	// Barcodes.
	mux.Handle("GET /api/products/{barcode}", authMW(http.HandlerFunc(productsHandler.Get)))
	mux.Handle("PUT /api/products/{barcode}", authMW(http.HandlerFunc(productsHandler.Put)))
	mux.Handle("POST /api/barcode/scan", authMW(http.HandlerFunc(productsHandler.Scan)))

	// Preferences: read (all), write (admin).
	mux.Handle("GET /api/preferences", authMW(http.HandlerFunc(preferencesHandler.Get)))
	mux.Handle("PUT /api/preferences", authMW(requireAdmin(http.HandlerFunc(preferencesHandler.Update))))

	// Backups (admin only).
	mux.Handle("POST /api/backup", authMW(requireAdmin(http.HandlerFunc(backupHandler.Create))))
	mux.Handle("GET /api/backup", authMW(requireAdmin(http.HandlerFunc(backupHandler.List))))
	mux.Handle("GET /api/backup/{name}", authMW(requireAdmin(http.HandlerFunc(backupHandler.Get))))
	mux.Handle("POST /api/backup/{name}/restore", authMW(requireAdmin(http.HandlerFunc(backupHandler.Restore))))

	return mux
}
