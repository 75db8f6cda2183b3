// Package atelier is the website and back-office of a painter's gallery,
// built with Go, Echo and templ. It serves the public catalog, biography,
// press and contact pages, and an admin dashboard with backup/restore and
// filesystem sync.
package atelier

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/atelier/admin"
	"github.com/eringen/atelier/ai"
	"github.com/eringen/atelier/assets"
	"github.com/eringen/atelier/cache"
	"github.com/eringen/atelier/content"
)

// App is the central atelier application. It wires together the content
// store, the asset store, the cache, the admin service, middleware and
// handlers.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *content.Store
	Assets *assets.Store
	Cache  *cache.Cache
	Admin  *admin.Service

	loginLimiter *LoginLimiter
	seoGenerator admin.SeoGenerator
	customRoutes []func(*App)
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Open initializes the content store, asset store, cache and admin service.
// It is enough for command-line maintenance; Start calls it too.
func (a *App) Open() error {
	if a.Store != nil {
		return nil
	}
	logger := a.Echo.Logger

	store, err := content.Open(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("atelier: init store: %w", err)
	}
	a.Store = store
	a.Assets = assets.New(a.Config.AssetDir, a.Config.AssetURLPrefix, logger)
	a.Cache = cache.New(a.Config.CacheTTL)

	if a.seoGenerator == nil {
		if client := ai.NewClient(a.Config.AI); client.Configured() {
			a.seoGenerator = client
		}
	}
	a.Admin = admin.New(admin.Deps{
		Store:    a.Store,
		Assets:   a.Assets,
		Cache:    a.Cache,
		AI:       a.seoGenerator,
		Logger:   logger,
		SiteName: a.Config.Name,
	})

	created, err := a.Store.EnsureAdmin(context.Background(), a.Config.AdminUsername, a.Config.AdminPassword)
	if err != nil {
		return fmt.Errorf("atelier: ensure admin: %w", err)
	}
	if created {
		logger.Infof("[admin] created user %q", a.Config.AdminUsername)
	}
	return nil
}

// Setup opens the stores and registers middleware and routes without
// starting the server.
func (a *App) Setup() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("atelier: SessionSecret is required")
	}
	if err := a.Open(); err != nil {
		return err
	}

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the App up and serves HTTP until the server is closed.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Default stylesheets; anything else under /public comes from StaticDir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/admin.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.Config.StaticDir)
	e.Static(a.Assets.URLPrefix(), a.Assets.Root())
	e.GET("/favicon.png", a.handleIcon("favicon"))
	e.GET("/apple-touch-icon.png", a.handleIcon("apple-touch-icon"))
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET(cache.RouteSitemap, a.handleSitemap)
	e.GET(cache.RouteFeed, a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/paintings/", handlePaintingsRedirect)
	e.GET("/paintings/:ref/", a.handlePainting)
	e.GET(cache.RouteBiography, a.handleBiography)
	e.GET(cache.RouteReviews, a.handleReviews)
	e.GET("/reviews/:ref/", a.handleReview)
	e.GET(cache.RouteContact, a.handleContact)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)

	g := e.Group("/admin", requireAdmin)
	g.POST("/paintings/", a.handleCreatePainting)
	g.POST("/paintings/:id/", a.handleUpdatePainting)
	g.DELETE("/paintings/:id/", a.handleDeletePainting)
	g.POST("/paintings/:id/sold/", a.handleToggleSold)
	g.POST("/biography/", a.handleSaveBiography)
	g.GET("/reviews/", a.handleAdminReviews)
	g.POST("/reviews/", a.handleCreateReview)
	g.POST("/reviews/:id/", a.handleUpdateReview)
	g.DELETE("/reviews/:id/", a.handleDeleteReview)
	g.POST("/settings/", a.handleSaveSettings)
	g.POST("/links/", a.handleCreateLink)
	g.POST("/links/reorder/", a.handleReorderLinks)
	g.POST("/links/:id/", a.handleUpdateLink)
	g.DELETE("/links/:id/", a.handleDeleteLink)
	g.POST("/seo/:key/", a.handleSaveSeo)
	g.POST("/icons/:kind/", a.handleUploadIcon)
	g.GET("/backup/export/", a.handleExport)
	g.POST("/backup/import/", a.handleImport)
	g.POST("/sync/", a.handleSync)
	g.GET("/audit/", a.handleAudit)
	g.POST("/ai/seo/", a.handleGenerateSeo)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
