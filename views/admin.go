package views

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	site "github.com/christinakneis/personal-site"
)

func csrfField(token string) string {
	return fmt.Sprintf(`<input type="hidden" name="_csrf" value="%s"/>`, esc(token))
}

func flash(msg string) string {
	if msg == "" {
		return ""
	}
	return `<div class="flash">` + esc(msg) + `</div>`
}

func (v *viewSet) adminLogin(showError bool, csrfToken string) templ.Component {
	return page(func(b *strings.Builder) {
		var body strings.Builder
		body.WriteString(`<section class="admin-login"><h1>Admin Login</h1>`)
		if showError {
			body.WriteString(`<div class="flash flash-error">Invalid username or password</div>`)
		}
		body.WriteString(`<form method="POST" action="/admin/login/">` + csrfField(csrfToken))
		body.WriteString(`<label>Username <input name="username" required/></label>`)
		body.WriteString(`<label>Password <input type="password" name="password" required/></label>`)
		body.WriteString(`<button type="submit">Log In</button></form></section>`)
		v.layout(b, "Admin", body.String())
	})
}

func (v *viewSet) adminSetup(errMsg, csrfToken string) templ.Component {
	return page(func(b *strings.Builder) {
		var body strings.Builder
		body.WriteString(`<section class="admin-setup"><h1>Create Admin User</h1>` + flash(errMsg))
		body.WriteString(`<form method="POST" action="/admin/setup/">` + csrfField(csrfToken))
		body.WriteString(`<label>Username <input name="username" required minlength="3" maxlength="80"/></label>`)
		body.WriteString(`<label>Email <input type="email" name="email" required/></label>`)
		body.WriteString(`<label>Password <input type="password" name="password" required minlength="6"/></label>`)
		body.WriteString(`<button type="submit">Create Admin User</button></form></section>`)
		v.layout(b, "Setup", body.String())
	})
}

func adminNav(b *strings.Builder, csrfToken string) {
	b.WriteString(`<nav class="admin-nav">
<a href="/admin/dashboard/">Dashboard</a>
<a href="/admin/posts/">Posts</a>
<a href="/admin/posts/reorder/">Reorder</a>
<a href="/admin/images/">Images</a>
<a href="/admin/settings/">Settings</a>
<form method="POST" action="/admin/logout/" class="inline">` + csrfField(csrfToken) + `<button type="submit">Log out</button></form>
</nav>`)
}

func (v *viewSet) adminDashboard(stats site.DashboardStats, recent []site.Post, postsPerPage, blogPerPage, csrfToken string) templ.Component {
	return page(func(b *strings.Builder) {
		var body strings.Builder
		adminNav(&body, csrfToken)
		body.WriteString(`<h1>Dashboard</h1><ul class="stats">`)
		fmt.Fprintf(&body, `<li>%d posts</li><li>%d published</li><li>%d drafts</li>`,
			stats.Total, stats.Published, stats.Drafts)
		fmt.Fprintf(&body, `<li>homepage shows %s</li><li>blog shows %s per page</li>`,
			esc(postsPerPage), esc(blogPerPage))
		body.WriteString(`</ul><h2>Recently edited</h2><ul class="recent">`)
		for _, p := range recent {
			fmt.Fprintf(&body, `<li><a href="/admin/posts/%d/edit/">%s</a> <time>%s</time></li>`,
				p.ID, esc(p.Title), p.UpdatedAt.Format("2006-01-02 15:04"))
		}
		body.WriteString(`</ul>`)
		v.layout(b, "Dashboard", body.String())
	})
}

func (v *viewSet) adminPosts(posts []site.Post, pageNum, totalPages int, msg, csrfToken string) templ.Component {
	return page(func(b *strings.Builder) {
		var body strings.Builder
		adminNav(&body, csrfToken)
		body.WriteString(`<h1>Posts</h1>` + flash(msg))
		body.WriteString(`<p><a class="button" href="/admin/posts/new/">New Post</a></p>`)
		body.WriteString(`<table class="admin-posts"><thead><tr><th>Title</th><th>Status</th><th>Order</th><th></th></tr></thead><tbody>`)
		for _, p := range posts {
			status := "draft"
			toggleLabel := "Publish"
			if p.Published {
				status = "published"
				toggleLabel = "Unpublish"
			}
			fmt.Fprintf(&body, `<tr><td><a href="/admin/posts/%d/edit/">%s</a></td><td>%s</td><td>%d</td><td>`,
				p.ID, esc(p.Title), status, p.DisplayOrder)
			fmt.Fprintf(&body, `<form method="POST" action="/admin/posts/%d/toggle-publish/" class="inline">%s<button type="submit">%s</button></form>`,
				p.ID, csrfField(csrfToken), toggleLabel)
			fmt.Fprintf(&body, `<form method="POST" action="/admin/posts/%d/delete/" class="inline" onsubmit="return confirm('Delete this post?')">%s<button type="submit">Delete</button></form>`,
				p.ID, csrfField(csrfToken))
			body.WriteString(`</td></tr>`)
		}
		body.WriteString(`</tbody></table>`)
		if totalPages > 1 {
			body.WriteString(`<nav class="pagination">`)
			if pageNum > 1 {
				fmt.Fprintf(&body, `<a href="/admin/posts/?page=%d">Prev</a>`, pageNum-1)
			}
			fmt.Fprintf(&body, `<span>Page %d of %d</span>`, pageNum, totalPages)
			if pageNum < totalPages {
				fmt.Fprintf(&body, `<a href="/admin/posts/?page=%d">Next</a>`, pageNum+1)
			}
			body.WriteString(`</nav>`)
		}
		v.layout(b, "Posts", body.String())
	})
}

func selected(cond bool) string {
	if cond {
		return ` selected`
	}
	return ""
}

func checked(cond bool) string {
	if cond {
		return ` checked`
	}
	return ""
}

func (v *viewSet) adminPostForm(p site.Post, isNew bool, errMsg, csrfToken string) templ.Component {
	return page(func(b *strings.Builder) {
		var body strings.Builder
		adminNav(&body, csrfToken)
		title := "Edit Post"
		action := fmt.Sprintf("/admin/posts/%d/edit/", p.ID)
		if isNew {
			title = "New Post"
			action = "/admin/posts/new/"
		}
		body.WriteString(`<h1>` + title + `</h1>` + flash(errMsg))
		body.WriteString(`<form method="POST" action="` + action + `" class="post-form">` + csrfField(csrfToken))
		fmt.Fprintf(&body, `<label>Title <input name="title" value="%s" required maxlength="200"/></label>`, esc(p.Title))
		if !isNew {
			fmt.Fprintf(&body, `<p class="slug-note">Slug: <code>%s</code> (fixed at creation)</p>`, esc(p.Slug))
		}
		fmt.Fprintf(&body, `<label>Content Type <select name="content_type"><option value="markdown"%s>Markdown</option><option value="html"%s>HTML</option></select></label>`,
			selected(p.ContentType != "html"), selected(p.ContentType == "html"))
		fmt.Fprintf(&body, `<label>Content <textarea name="content" rows="20" required>%s</textarea></label>`, esc(p.Content))
		fmt.Fprintf(&body, `<label>Preview Text <textarea name="preview" rows="3" required maxlength="500">%s</textarea></label>`, esc(p.Preview))
		fmt.Fprintf(&body, `<label>Image Path (optional) <input name="image" value="%s" maxlength="200"/></label>`, esc(p.Image))
		fmt.Fprintf(&body, `<label><input type="checkbox" name="published"%s/> Published</label>`, checked(p.Published))
		fmt.Fprintf(&body, `<label><input type="checkbox" name="featured"%s/> Featured</label>`, checked(p.Featured))
		fmt.Fprintf(&body, `<label><input type="checkbox" name="show_dates"%s/> Show Dates</label>`, checked(p.ShowDates))
		fmt.Fprintf(&body, `<label>Display Order <input name="display_order" value="%d"/> <small>Lower numbers appear first</small></label>`, p.DisplayOrder)
		body.WriteString(`<button type="submit">Save Post</button></form>`)
		v.layout(b, title, body.String())
	})
}

// adminReorder renders the drag-and-drop list. The inline script posts the
// final order as JSON to the reorder endpoint.
func (v *viewSet) adminReorder(posts []site.Post, csrfToken string) templ.Component {
	return page(func(b *strings.Builder) {
		var body strings.Builder
		adminNav(&body, csrfToken)
		body.WriteString(`<h1>Reorder Posts</h1><p>Drag posts into place, then save.</p>`)
		body.WriteString(`<ul id="reorder-list" class="reorder-list">`)
		for _, p := range posts {
			fmt.Fprintf(&body, `<li draggable="true" data-id="%d">%s</li>`, p.ID, esc(p.Title))
		}
		body.WriteString(`</ul><button id="save-order">Save Order</button><div id="reorder-status"></div>`)
		body.WriteString(`<script>
(function () {
  var list = document.getElementById('reorder-list');
  var dragging = null;
  list.addEventListener('dragstart', function (e) { dragging = e.target; });
  list.addEventListener('dragover', function (e) {
    e.preventDefault();
    var over = e.target.closest('li');
    if (over && dragging && over !== dragging) {
      list.insertBefore(dragging, over);
    }
  });
  document.getElementById('save-order').addEventListener('click', function () {
    var items = [];
    list.querySelectorAll('li').forEach(function (li, i) {
      items.push({ id: li.dataset.id, order: i });
    });
    fetch('/admin/posts/reorder/', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({ posts: items })
    }).then(function (r) { return r.json(); }).then(function (data) {
      document.getElementById('reorder-status').textContent = data.message;
    });
  });
})();
</script>`)
		v.layout(b, "Reorder", body.String())
	})
}

func (v *viewSet) adminSettings(postsPerPage, blogPerPage, msg, csrfToken string) templ.Component {
	return page(func(b *strings.Builder) {
		var body strings.Builder
		adminNav(&body, csrfToken)
		body.WriteString(`<h1>Settings</h1>` + flash(msg))
		body.WriteString(`<form method="POST" action="/admin/settings/">` + csrfField(csrfToken))
		fmt.Fprintf(&body, `<label>Posts on homepage <input name="posts_per_page" value="%s"/></label>`, esc(postsPerPage))
		fmt.Fprintf(&body, `<label>Posts per blog page <input name="blog_posts_per_page" value="%s"/></label>`, esc(blogPerPage))
		body.WriteString(`<button type="submit">Save Settings</button></form>`)
		v.layout(b, "Settings", body.String())
	})
}

func (v *viewSet) adminGallery(images []site.Image, msg, csrfToken string) templ.Component {
	return page(func(b *strings.Builder) {
		var body strings.Builder
		adminNav(&body, csrfToken)
		body.WriteString(`<h1>Images</h1>` + flash(msg))
		body.WriteString(`<form method="POST" action="/admin/images/upload/" enctype="multipart/form-data">` + csrfField(csrfToken))
		body.WriteString(`<input type="file" name="image" accept=".png,.jpg,.jpeg,.gif,.webp,.svg" required/>`)
		body.WriteString(`<button type="submit">Upload</button></form>`)
		body.WriteString(`<ul class="gallery">`)
		for _, img := range images {
			fmt.Fprintf(&body, `<li><img src="%s" alt="%s"/><code>%s</code><span>%d bytes</span></li>`,
				esc(img.URL), esc(img.Filename), esc(img.StoragePath), img.Size)
		}
		body.WriteString(`</ul>`)
		v.layout(b, "Images", body.String())
	})
}
