package site

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.Config.StaticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically so the sitemap URL tracks the
// configured site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

// handleHome serves the homepage: published posts with featured ones first,
// capped by the posts_per_page setting.
func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.Published()
	if err != nil {
		return err
	}
	featured := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	for _, p := range posts {
		if !p.Featured {
			featured = append(featured, p)
		}
	}
	limit := atoiOr(a.Settings.Get(SettingPostsPerPage, DefaultPostsPerPage), 6)
	if len(featured) > limit {
		featured = featured[:limit]
	}
	return render(c, a.Views.Home(featured))
}

func (a *App) handleAbout(c echo.Context) error {
	return render(c, a.Views.About())
}

// handleBlogIndex serves the paginated blog listing. Page size comes from the
// blog_posts_per_page setting; out-of-range pages clamp instead of erroring.
func (a *App) handleBlogIndex(c echo.Context) error {
	posts, err := a.Cache.Published()
	if err != nil {
		return err
	}
	perPage := atoiOr(a.Settings.Get(SettingBlogPostsPerPage, DefaultBlogPostsPerPage), 10)

	totalPages := (len(posts) + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * perPage
	end := start + perPage
	if start > len(posts) {
		start = len(posts)
	}
	if end > len(posts) {
		end = len(posts)
	}
	return render(c, a.Views.BlogIndex(posts[start:end], page, totalPages))
}

// handlePost serves a single published post by slug.
func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetBySlug(c.Param("slug"))
	if err != nil {
		return err
	}
	return render(c, a.Views.PostPage(post))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.Published()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.Published()
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}
