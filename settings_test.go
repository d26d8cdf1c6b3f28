package site

import "testing"

func TestSettingsFallback(t *testing.T) {
	s := NewSettings(setupTestStore(t))

	if got := s.Get(SettingPostsPerPage, "6"); got != "6" {
		t.Errorf("Get on empty store = %q, want fallback %q", got, "6")
	}
}

func TestSettingsSetAndGet(t *testing.T) {
	s := NewSettings(setupTestStore(t))

	if err := s.Set(SettingPostsPerPage, "12", "homepage post count"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := s.Get(SettingPostsPerPage, "6"); got != "12" {
		t.Errorf("Get = %q, want %q", got, "12")
	}

	// Upsert replaces the value.
	if err := s.Set(SettingPostsPerPage, "3", ""); err != nil {
		t.Fatalf("Set update failed: %v", err)
	}
	if got := s.Get(SettingPostsPerPage, "6"); got != "3" {
		t.Errorf("Get after update = %q, want %q", got, "3")
	}
}

func TestSettingsNonNumericValue(t *testing.T) {
	s := NewSettings(setupTestStore(t))

	// Settings are plain strings; parsing is the consumer's problem.
	if err := s.Set(SettingBlogPostsPerPage, "lots", ""); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := s.Get(SettingBlogPostsPerPage, "10"); got != "lots" {
		t.Errorf("Get = %q, want stored string back", got)
	}
	if got := atoiOr(s.Get(SettingBlogPostsPerPage, "10"), 10); got != 10 {
		t.Errorf("atoiOr on %q = %d, want fallback 10", "lots", got)
	}
}

func TestSeedDefaults(t *testing.T) {
	s := NewSettings(setupTestStore(t))

	if err := s.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	if got := s.Get(SettingPostsPerPage, ""); got != "6" {
		t.Errorf("posts_per_page = %q, want %q", got, "6")
	}
	if got := s.Get(SettingBlogPostsPerPage, ""); got != "10" {
		t.Errorf("blog_posts_per_page = %q, want %q", got, "10")
	}
}
