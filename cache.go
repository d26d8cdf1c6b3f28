package site

import (
	"sync"
	"time"
)

// PostCache is an in-memory TTL cache of the published post list, in display
// order. It backs the public pages, the RSS feed, and the sitemap; every
// admin write path invalidates it.
type PostCache struct {
	mu      sync.RWMutex
	list    []Post
	fetched time.Time
	ttl     time.Duration
	posts   *Posts
}

// NewPostCache creates a PostCache over the post manager.
func NewPostCache(posts *Posts, ttl time.Duration) *PostCache {
	return &PostCache{posts: posts, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.list != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.list = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached published list, reloading it when stale.
// It tries a read lock first; only takes a write lock when a reload is needed.
func (c *PostCache) ensureLoaded() ([]Post, error) {
	c.mu.RLock()
	if c.valid() {
		list := c.list
		c.mu.RUnlock()
		return list, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.list, nil
	}
	list, err := c.posts.ListPublished()
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Post{}
	}
	c.list = list
	c.fetched = time.Now()
	return c.list, nil
}

// Published returns all published posts in display order.
func (c *PostCache) Published() ([]Post, error) {
	return c.ensureLoaded()
}

// GetBySlug returns a published post by slug from the cache.
func (c *PostCache) GetBySlug(slug string) (Post, error) {
	list, err := c.ensureLoaded()
	if err != nil {
		return Post{}, err
	}
	for _, p := range list {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, &NotFoundError{Resource: "post", Name: slug}
}
