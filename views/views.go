// Package views provides the default templ components for every public and
// admin page. The site package calls these through its ViewFuncs struct, so
// a binary can swap any page for its own component.
package views

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	site "github.com/christinakneis/personal-site"
)

// page wraps an HTML-producing function as a templ component.
func page(fn func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fn(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func esc(s string) string {
	return html.EscapeString(s)
}

// layout writes the shared document shell around body.
func (v *viewSet) layout(b *strings.Builder, title, body string) {
	pageTitle := v.cfg.Name
	if title != "" {
		pageTitle = title + " — " + v.cfg.Name
	}
	fmt.Fprintf(b, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>%s</title>
<meta name="description" content="%s"/>
<link rel="stylesheet" href="/public/styles.css"/>
<link rel="alternate" type="application/rss+xml" title="%s" href="/feed.xml"/>
</head>
<body>
<header class="site-header">
<a class="site-title" href="/">%s</a>
<nav><a href="/blog/">Blog</a> <a href="/about/">About</a></nav>
</header>
<main>%s</main>
<footer class="site-footer"><p>&copy; %s</p></footer>
</body>
</html>`,
		esc(pageTitle), esc(v.cfg.Description), esc(v.cfg.Name), esc(v.cfg.Name), body, esc(v.cfg.Author))
}

// viewSet carries the site configuration every component needs.
type viewSet struct {
	cfg site.SiteConfig
}

// Default returns the stock components bound to cfg.
func Default(cfg site.SiteConfig) site.ViewFuncs {
	v := &viewSet{cfg: cfg}
	return site.ViewFuncs{
		Home:      v.home,
		About:     v.about,
		BlogIndex: v.blogIndex,
		PostPage:  v.postPage,

		AdminLogin:     v.adminLogin,
		AdminSetup:     v.adminSetup,
		AdminDashboard: v.adminDashboard,
		AdminPosts:     v.adminPosts,
		AdminPostForm:  v.adminPostForm,
		AdminReorder:   v.adminReorder,
		AdminSettings:  v.adminSettings,
		AdminGallery:   v.adminGallery,

		NotFound:    v.notFound,
		ServerError: v.serverError,
	}
}

// postCard renders one entry of a post listing.
func postCard(b *strings.Builder, p site.Post) {
	b.WriteString(`<article class="post-card">`)
	if p.Image != "" {
		fmt.Fprintf(b, `<img class="post-cover" src="%s" alt=""/>`, esc(p.Image))
	}
	fmt.Fprintf(b, `<h2><a href="%s">%s</a></h2>`, esc(p.Link()), esc(p.Title))
	if p.ShowDates {
		fmt.Fprintf(b, `<time datetime="%s">%s</time>`,
			p.CreatedAt.Format("2006-01-02"), p.CreatedAt.Format("January 2, 2006"))
	}
	fmt.Fprintf(b, `<p>%s</p></article>`, esc(p.Preview))
}

func (v *viewSet) home(posts []site.Post) templ.Component {
	return page(func(b *strings.Builder) {
		var body strings.Builder
		body.WriteString(`<section class="hero"><h1>` + esc(v.cfg.Name) + `</h1>`)
		if v.cfg.Description != "" {
			body.WriteString(`<p>` + esc(v.cfg.Description) + `</p>`)
		}
		body.WriteString(`</section><section class="post-list">`)
		for _, p := range posts {
			postCard(&body, p)
		}
		body.WriteString(`</section>`)
		v.layout(b, "", body.String())
	})
}

func (v *viewSet) about() templ.Component {
	return page(func(b *strings.Builder) {
		var body strings.Builder
		body.WriteString(`<section class="about"><h1>About</h1>`)
		if v.cfg.Author != "" {
			body.WriteString(`<p>Written and maintained by ` + esc(v.cfg.Author) + `.</p>`)
		}
		if v.cfg.Description != "" {
			body.WriteString(`<p>` + esc(v.cfg.Description) + `</p>`)
		}
		body.WriteString(`</section>`)
		v.layout(b, "About", body.String())
	})
}

func (v *viewSet) blogIndex(posts []site.Post, pageNum, totalPages int) templ.Component {
	return page(func(b *strings.Builder) {
		var body strings.Builder
		body.WriteString(`<h1>Blog</h1><section class="post-list">`)
		for _, p := range posts {
			postCard(&body, p)
		}
		body.WriteString(`</section>`)
		if totalPages > 1 {
			body.WriteString(`<nav class="pagination">`)
			if pageNum > 1 {
				fmt.Fprintf(&body, `<a href="/blog/?page=%d">&larr; Newer</a>`, pageNum-1)
			}
			fmt.Fprintf(&body, `<span>Page %d of %d</span>`, pageNum, totalPages)
			if pageNum < totalPages {
				fmt.Fprintf(&body, `<a href="/blog/?page=%d">Older &rarr;</a>`, pageNum+1)
			}
			body.WriteString(`</nav>`)
		}
		v.layout(b, "Blog", body.String())
	})
}

func (v *viewSet) postPage(p site.Post) templ.Component {
	return page(func(b *strings.Builder) {
		var body strings.Builder
		body.WriteString(`<article class="post">`)
		fmt.Fprintf(&body, `<h1>%s</h1>`, esc(p.Title))
		if p.ShowDates {
			fmt.Fprintf(&body, `<p class="post-dates"><time datetime="%s">%s</time>`,
				p.CreatedAt.Format("2006-01-02"), p.CreatedAt.Format("January 2, 2006"))
			if !p.UpdatedAt.Truncate(24 * time.Hour).Equal(p.CreatedAt.Truncate(24 * time.Hour)) {
				fmt.Fprintf(&body, ` &middot; updated %s`, p.UpdatedAt.Format("January 2, 2006"))
			}
			body.WriteString(`</p>`)
		}
		if p.Image != "" {
			fmt.Fprintf(&body, `<img class="post-cover" src="%s" alt=""/>`, esc(p.Image))
		}
		// ContentHTML is sanitized at write time; it is the only raw HTML
		// the public site ever emits.
		body.WriteString(`<div class="post-body">` + p.ContentHTML + `</div>`)
		body.WriteString(`</article>`)
		v.layout(b, p.Title, body.String())
	})
}

func (v *viewSet) notFound() templ.Component {
	return page(func(b *strings.Builder) {
		v.layout(b, "Not Found", `<section class="error-page"><h1>404</h1><p>That page does not exist.</p><p><a href="/">Back home</a></p></section>`)
	})
}

func (v *viewSet) serverError() templ.Component {
	return page(func(b *strings.Builder) {
		v.layout(b, "Error", `<section class="error-page"><h1>500</h1><p>Something went wrong. Try again shortly.</p></section>`)
	})
}
