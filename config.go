package site

import "time"

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string // Site name for titles, RSS, and JSON-LD
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/site.db")
	StaticDir    string // User static assets dir (default "public")

	// GalleryDirs are extra folders under StaticDir merged into the admin
	// image gallery alongside uploads (default ["img"]).
	GalleryDirs []string

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	PostCacheTTL time.Duration // Published post cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Personal Site"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.GalleryDirs == nil {
		c.GalleryDirs = []string{"img"}
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithOptimizer sets the image re-encoding capability. Pass nil to store
// uploads exactly as received; the default is StdOptimizer.
func WithOptimizer(o Optimizer) Option {
	return func(a *App) {
		a.optimizer = o
		a.optimizerSet = true
	}
}

// WithCustomRoutes registers additional routes on the Echo instance before
// the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithClock sets the time source used for post and user timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
