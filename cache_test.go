package site

import (
	"errors"
	"testing"
	"time"
)

func TestPostCacheServesAndInvalidates(t *testing.T) {
	p := setupTestPosts(t)
	c := NewPostCache(p, time.Minute)

	in := validInput()
	in.Published = true
	post, err := p.Create(in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	list, err := c.Published()
	if err != nil {
		t.Fatalf("Published failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("cache count = %d, want 1", len(list))
	}

	// A write behind the cache's back stays invisible until invalidation.
	in2 := validInput()
	in2.Title = "Second Post"
	in2.Published = true
	if _, err := p.Create(in2); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	list, err = c.Published()
	if err != nil {
		t.Fatalf("Published failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("stale cache count = %d, want 1", len(list))
	}

	c.Invalidate()
	list, err = c.Published()
	if err != nil {
		t.Fatalf("Published failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("post-invalidate count = %d, want 2", len(list))
	}

	got, err := c.GetBySlug(post.Slug)
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if got.ID != post.ID {
		t.Errorf("GetBySlug returned post %d, want %d", got.ID, post.ID)
	}
}

func TestPostCacheMiss(t *testing.T) {
	p := setupTestPosts(t)
	c := NewPostCache(p, time.Minute)

	var nf *NotFoundError
	if _, err := c.GetBySlug("nope"); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestPostCacheTTLExpiry(t *testing.T) {
	p := setupTestPosts(t)
	c := NewPostCache(p, 10*time.Millisecond)

	if _, err := c.Published(); err != nil {
		t.Fatalf("Published failed: %v", err)
	}

	in := validInput()
	in.Published = true
	if _, err := p.Create(in); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	list, err := c.Published()
	if err != nil {
		t.Fatalf("Published failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expired cache should reload, count = %d, want 1", len(list))
	}
}
