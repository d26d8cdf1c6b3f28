package site

import (
	"time"

	"github.com/christinakneis/personal-site/content"
)

// Post is the core content record. ContentHTML is derived: it always equals
// content.Sanitize(Content, ContentType) as of the last write, and is the only
// field public templates render.
type Post struct {
	ID           int64
	Title        string
	Slug         string
	Content      string
	ContentType  content.Type
	ContentHTML  string
	Preview      string
	Image        string
	Published    bool
	Featured     bool
	ShowDates    bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Link returns the public URL path for the post.
func (p Post) Link() string {
	return "/blog/" + p.Slug + "/"
}

// User is an administrative identity. The handlers only ever ask "is this
// session authenticated"; nothing else inspects the record.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// Image describes one file in the uploads gallery.
type Image struct {
	Filename    string    `json:"filename"`
	URL         string    `json:"url"`
	StoragePath string    `json:"storagePath"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mtime"`
}

// DashboardStats feeds the admin dashboard counters.
type DashboardStats struct {
	Total     int
	Published int
	Drafts    int
}
