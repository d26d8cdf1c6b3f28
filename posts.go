package site

import (
	"database/sql"
	"time"

	"github.com/christinakneis/personal-site/content"
)

const (
	maxTitleLen   = 200
	maxPreviewLen = 500
	maxImageLen   = 200
)

// Posts validates, derives, and persists post records. The Post struct itself
// is inert; every lifecycle rule lives here.
type Posts struct {
	store *Store
	now   func() time.Time
}

// NewPosts creates the post manager. now is injectable for tests; pass nil
// for the wall clock.
func NewPosts(store *Store, now func() time.Time) *Posts {
	if now == nil {
		now = time.Now
	}
	return &Posts{store: store, now: now}
}

// PostInput carries the admin-editable fields of a post.
type PostInput struct {
	Title        string
	Content      string
	ContentType  content.Type
	Preview      string
	Image        string
	Published    bool
	Featured     bool
	ShowDates    bool
	DisplayOrder int
}

func validateInput(in PostInput) error {
	switch {
	case in.Title == "":
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	case len(in.Title) > maxTitleLen:
		return &ValidationError{Field: "title", Reason: "must be at most 200 characters"}
	case in.Content == "":
		return &ValidationError{Field: "content", Reason: "must not be empty"}
	case in.Preview == "":
		return &ValidationError{Field: "preview", Reason: "must not be empty"}
	case len(in.Preview) > maxPreviewLen:
		return &ValidationError{Field: "preview", Reason: "must be at most 500 characters"}
	case len(in.Image) > maxImageLen:
		return &ValidationError{Field: "image", Reason: "must be at most 200 characters"}
	}
	return nil
}

// Create validates the input, derives the slug from the title (once, for the
// lifetime of the post), sanitizes the content, and inserts the record.
// A duplicate slug is a hard conflict; no suffix disambiguation is attempted.
func (p *Posts) Create(in PostInput) (Post, error) {
	if err := validateInput(in); err != nil {
		return Post{}, err
	}
	slug := Slugify(in.Title)
	if slug == "" {
		return Post{}, &ValidationError{Field: "title", Reason: "must contain at least one letter or digit"}
	}
	exists, err := p.store.slugExists(slug)
	if err != nil {
		return Post{}, &ServerError{Op: "check slug", Err: err}
	}
	if exists {
		return Post{}, &ConflictError{Resource: "slug", Value: slug}
	}
	now := p.now()
	post := Post{
		Title:        in.Title,
		Slug:         slug,
		Content:      in.Content,
		ContentType:  in.ContentType,
		ContentHTML:  content.Sanitize(in.Content, in.ContentType),
		Preview:      in.Preview,
		Image:        in.Image,
		Published:    in.Published,
		Featured:     in.Featured,
		ShowDates:    in.ShowDates,
		DisplayOrder: in.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.store.insertPost(&post); err != nil {
		return Post{}, &ServerError{Op: "insert post", Err: err}
	}
	return post, nil
}

// Update applies new field values to an existing post. The slug is never
// recomputed, even when the title changes. Content HTML is re-derived
// unconditionally so it can never diverge from the raw content.
func (p *Posts) Update(id int64, in PostInput) (Post, error) {
	if err := validateInput(in); err != nil {
		return Post{}, err
	}
	post, err := p.store.getPost(id)
	if err == sql.ErrNoRows {
		return Post{}, &NotFoundError{Resource: "post", ID: id}
	}
	if err != nil {
		return Post{}, &ServerError{Op: "load post", Err: err}
	}
	post.Title = in.Title
	post.Content = in.Content
	post.ContentType = in.ContentType
	post.ContentHTML = content.Sanitize(in.Content, in.ContentType)
	post.Preview = in.Preview
	post.Image = in.Image
	post.Published = in.Published
	post.Featured = in.Featured
	post.ShowDates = in.ShowDates
	post.DisplayOrder = in.DisplayOrder
	post.UpdatedAt = p.now()
	if err := p.store.updatePost(&post); err != nil {
		return Post{}, &ServerError{Op: "update post", Err: err}
	}
	return post, nil
}

// Delete removes a post permanently. No other record references posts, so
// there is nothing to cascade.
func (p *Posts) Delete(id int64) error {
	err := p.store.deletePost(id)
	if err == sql.ErrNoRows {
		return &NotFoundError{Resource: "post", ID: id}
	}
	if err != nil {
		return &ServerError{Op: "delete post", Err: err}
	}
	return nil
}

// TogglePublish flips the published flag and returns the new state.
func (p *Posts) TogglePublish(id int64) (Post, error) {
	post, err := p.store.getPost(id)
	if err == sql.ErrNoRows {
		return Post{}, &NotFoundError{Resource: "post", ID: id}
	}
	if err != nil {
		return Post{}, &ServerError{Op: "load post", Err: err}
	}
	post.Published = !post.Published
	post.UpdatedAt = p.now()
	if err := p.store.updatePost(&post); err != nil {
		return Post{}, &ServerError{Op: "update post", Err: err}
	}
	return post, nil
}

// Get returns any post by id, published or not.
func (p *Posts) Get(id int64) (Post, error) {
	post, err := p.store.getPost(id)
	if err == sql.ErrNoRows {
		return Post{}, &NotFoundError{Resource: "post", ID: id}
	}
	if err != nil {
		return Post{}, &ServerError{Op: "load post", Err: err}
	}
	return post, nil
}

// GetPublished returns a published post by slug, as seen by public pages.
func (p *Posts) GetPublished(slug string) (Post, error) {
	post, err := p.store.getPostBySlug(slug, true)
	if err == sql.ErrNoRows {
		return Post{}, &NotFoundError{Resource: "post", Name: slug}
	}
	if err != nil {
		return Post{}, &ServerError{Op: "load post", Err: err}
	}
	return post, nil
}

// ListPublished returns published posts ordered by display order ascending,
// then creation time descending.
func (p *Posts) ListPublished() ([]Post, error) {
	posts, err := p.store.listPosts(true)
	if err != nil {
		return nil, &ServerError{Op: "list posts", Err: err}
	}
	return posts, nil
}

// ListAll returns every post for the admin panel, same ordering contract.
func (p *Posts) ListAll() ([]Post, error) {
	posts, err := p.store.listPosts(false)
	if err != nil {
		return nil, &ServerError{Op: "list posts", Err: err}
	}
	return posts, nil
}

// Recent returns the most recently edited posts for the dashboard.
func (p *Posts) Recent(limit int) ([]Post, error) {
	posts, err := p.store.listRecent(limit)
	if err != nil {
		return nil, &ServerError{Op: "list recent posts", Err: err}
	}
	return posts, nil
}

// Stats returns post counts for the dashboard.
func (p *Posts) Stats() (DashboardStats, error) {
	total, err := p.store.countPosts(false)
	if err != nil {
		return DashboardStats{}, &ServerError{Op: "count posts", Err: err}
	}
	published, err := p.store.countPosts(true)
	if err != nil {
		return DashboardStats{}, &ServerError{Op: "count posts", Err: err}
	}
	return DashboardStats{Total: total, Published: published, Drafts: total - published}, nil
}
