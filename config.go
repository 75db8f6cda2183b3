package atelier

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/eringen/atelier/admin"
	"github.com/eringen/atelier/ai"
	"github.com/eringen/atelier/views"
)

// SiteConfig holds all configuration for an atelier site.
type SiteConfig struct {
	Name        string // Site name (default "Atelier")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for the feed and meta tags
	Author      string // Artist name for JSON-LD

	Addr           string // Listen address (default ":3000")
	DatabasePath   string // SQLite path (default "data/gallery.db")
	AssetDir       string // Uploaded files root (default "data/uploads")
	AssetURLPrefix string // URL prefix the asset tree is served under (default "/uploads")
	StaticDir      string // User-owned static files served under /public (default "public")

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	CacheTTL time.Duration // Data cache TTL (default 5min)

	AnalyticsScriptURL string // Optional analytics <script> src
	AnalyticsSiteID    string // Passed to the analytics script as data-site-id

	AI ai.Config // AI SEO suggestions; disabled without an API key

	AdminUsername string // Admin created on first start when no user exists
	AdminPassword string
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Atelier"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/gallery.db"
	}
	if c.AssetDir == "" {
		c.AssetDir = "data/uploads"
	}
	if c.AssetURLPrefix == "" {
		c.AssetURLPrefix = "/uploads"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
}

func (c SiteConfig) views() views.SiteConfig {
	return views.SiteConfig{
		Name:               c.Name,
		URL:                c.URL,
		Description:        c.Description,
		Author:             c.Author,
		AnalyticsScriptURL: c.AnalyticsScriptURL,
		AnalyticsSiteID:    c.AnalyticsSiteID,
	}
}

// LoadConfig reads a SiteConfig from the environment. A .env file in the
// working directory is loaded first when present; variables already set in
// the environment win.
func LoadConfig() SiteConfig {
	_ = godotenv.Load()

	cfg := SiteConfig{
		Name:               os.Getenv("SITE_NAME"),
		URL:                os.Getenv("SITE_URL"),
		Description:        os.Getenv("SITE_DESCRIPTION"),
		Author:             os.Getenv("SITE_AUTHOR"),
		Addr:               os.Getenv("ADDR"),
		DatabasePath:       os.Getenv("DATABASE_PATH"),
		AssetDir:           os.Getenv("ASSET_DIR"),
		AssetURLPrefix:     os.Getenv("ASSET_URL_PREFIX"),
		StaticDir:          os.Getenv("STATIC_DIR"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		CookieSecure:       envBool("COOKIE_SECURE"),
		CacheTTL:           envDuration("CACHE_TTL"),
		AnalyticsScriptURL: os.Getenv("ANALYTICS_SCRIPT_URL"),
		AnalyticsSiteID:    os.Getenv("ANALYTICS_SITE_ID"),
		AI: ai.Config{
			APIKey:  os.Getenv("AI_API_KEY"),
			BaseURL: os.Getenv("AI_BASE_URL"),
			Model:   os.Getenv("AI_MODEL"),
		},
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	cfg.setDefaults()
	return cfg
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

// envDuration accepts a Go duration ("10m") or a number of seconds.
func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return 0
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithSeoGenerator replaces the AI client used for SEO suggestions.
func WithSeoGenerator(g admin.SeoGenerator) Option {
	return func(a *App) {
		a.seoGenerator = g
	}
}

// WithLogger sets the logger shared by the App's components.
func WithLogger(l echo.Logger) Option {
	return func(a *App) {
		a.Echo.Logger = l
	}
}
