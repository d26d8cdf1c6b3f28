// Package site is a personal website with an admin-managed blog, built with
// Echo, templ, and SQLite. Public pages render sanitized post HTML only; an
// authenticated admin panel covers post CRUD, drag-and-drop reordering,
// image uploads, and site settings.
//
// Templates are supplied through the ViewFuncs struct so the binary owns all
// markup; the package owns handlers, middleware, and persistence.
package site

import (
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds the templ components the handlers render. The views
// package provides defaults; any field may be replaced.
type ViewFuncs struct {
	Home      func(posts []Post) templ.Component
	About     func() templ.Component
	BlogIndex func(posts []Post, page, totalPages int) templ.Component
	PostPage  func(post Post) templ.Component

	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminSetup     func(errMsg, csrfToken string) templ.Component
	AdminDashboard func(stats DashboardStats, recent []Post, postsPerPage, blogPerPage, csrfToken string) templ.Component
	AdminPosts     func(posts []Post, page, totalPages int, msg, csrfToken string) templ.Component
	AdminPostForm  func(post Post, isNew bool, errMsg, csrfToken string) templ.Component
	AdminReorder   func(posts []Post, csrfToken string) templ.Component
	AdminSettings  func(postsPerPage, blogPerPage, msg, csrfToken string) templ.Component
	AdminGallery   func(images []Image, msg, csrfToken string) templ.Component

	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App wires together the store, the domain services, the handlers, and the
// user-provided templates. Everything a handler touches hangs off this
// struct; there is no ambient global state.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Posts    *Posts
	Users    *Users
	Settings *Settings
	Images   *Images
	Cache    *PostCache
	Views    ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	optimizer    Optimizer
	optimizerSet bool
	now          func() time.Time
}

// New creates the application with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}
	for _, opt := range opts {
		opt(a)
	}
	if !a.optimizerSet {
		a.optimizer = StdOptimizer{}
	}
	return a
}

// Start initializes the database, services, middleware, and routes, then
// starts the server. It blocks until the server stops.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("site: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("site: init store: %w", err)
	}
	a.Store = store

	a.Posts = NewPosts(store, a.now)
	a.Users = NewUsers(store, a.Posts)
	a.Settings = NewSettings(store)
	a.Cache = NewPostCache(a.Posts, a.Config.PostCacheTTL)
	a.Images = NewImages(a.Config.StaticDir, a.Config.GalleryDirs, a.optimizer, a.Echo.Logger)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public pages
	e.GET("/", a.handleHome)
	e.GET("/about/", a.handleAbout)
	e.GET("/blog/", a.handleBlogIndex)
	e.GET("/blog/:slug/", a.handlePost)

	// Admin panel
	e.GET("/admin/", a.handleAdminRoot)
	e.GET("/admin/login/", a.handleAdminLoginForm)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", a.handleAdminLogout)
	e.GET("/admin/setup/", a.handleAdminSetupForm)
	e.POST("/admin/setup/", a.handleAdminSetup)
	e.GET("/admin/dashboard/", a.handleAdminDashboard)
	e.GET("/admin/posts/", a.handleAdminPosts)
	e.GET("/admin/posts/new/", a.handleAdminPostNewForm)
	e.POST("/admin/posts/new/", a.handleAdminPostNew)
	e.GET("/admin/posts/reorder/", a.handleAdminReorderPage)
	e.POST("/admin/posts/reorder/", a.handleAdminReorder)
	e.GET("/admin/posts/:id/edit/", a.handleAdminPostEditForm)
	e.POST("/admin/posts/:id/edit/", a.handleAdminPostEdit)
	e.POST("/admin/posts/:id/delete/", a.handleAdminPostDelete)
	e.POST("/admin/posts/:id/toggle-publish/", a.handleAdminTogglePublish)
	e.GET("/admin/settings/", a.handleAdminSettingsForm)
	e.POST("/admin/settings/", a.handleAdminSettings)
	e.GET("/admin/images/", a.handleAdminGallery)
	e.POST("/admin/images/upload/", a.handleAdminImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleAdminImageDelete)
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
