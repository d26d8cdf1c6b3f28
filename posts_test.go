package site

import (
	"errors"
	"strings"
	"testing"
)

func validInput() PostInput {
	return PostInput{
		Title:     "Test Post",
		Content:   "# Heading\n\nBody text.",
		Preview:   "A preview",
		ShowDates: true,
	}
}

func TestCreatePost(t *testing.T) {
	p := setupTestPosts(t)

	post, err := p.Create(validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if post.ID == 0 {
		t.Error("ID should be assigned")
	}
	if post.Slug != "test-post" {
		t.Errorf("Slug = %q, want %q", post.Slug, "test-post")
	}
	if post.ContentType != "markdown" {
		t.Errorf("ContentType = %q, want markdown default", post.ContentType)
	}
	if !strings.Contains(post.ContentHTML, "<h1") {
		t.Errorf("ContentHTML should contain rendered heading, got %q", post.ContentHTML)
	}
	if !post.CreatedAt.Equal(post.UpdatedAt) {
		t.Error("CreatedAt and UpdatedAt should match on create")
	}
	if post.Link() != "/blog/test-post/" {
		t.Errorf("Link = %q, want %q", post.Link(), "/blog/test-post/")
	}
}

func TestCreateSlugFromTitle(t *testing.T) {
	p := setupTestPosts(t)

	in := validInput()
	in.Title = "Why Do You Need a Systems Engineer?"
	post, err := p.Create(in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if post.Slug != "why-do-you-need-a-systems-engineer" {
		t.Errorf("Slug = %q, want %q", post.Slug, "why-do-you-need-a-systems-engineer")
	}
}

func TestCreateValidation(t *testing.T) {
	p := setupTestPosts(t)

	tests := []struct {
		name   string
		mutate func(*PostInput)
		field  string
	}{
		{"empty title", func(in *PostInput) { in.Title = "" }, "title"},
		{"long title", func(in *PostInput) { in.Title = strings.Repeat("a", 201) }, "title"},
		{"empty content", func(in *PostInput) { in.Content = "" }, "content"},
		{"empty preview", func(in *PostInput) { in.Preview = "" }, "preview"},
		{"long preview", func(in *PostInput) { in.Preview = strings.Repeat("a", 501) }, "preview"},
		{"long image", func(in *PostInput) { in.Image = strings.Repeat("a", 201) }, "image"},
		{"symbol-only title", func(in *PostInput) { in.Title = "!!!" }, "title"},
	}
	for _, tt := range tests {
		in := validInput()
		tt.mutate(&in)
		_, err := p.Create(in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %v", tt.name, err)
			continue
		}
		if verr.Field != tt.field {
			t.Errorf("%s: Field = %q, want %q", tt.name, verr.Field, tt.field)
		}
	}
}

func TestCreateBoundaryLengths(t *testing.T) {
	p := setupTestPosts(t)

	in := validInput()
	in.Title = strings.Repeat("a", 200)
	in.Preview = strings.Repeat("b", 500)
	in.Image = strings.Repeat("c", 200)
	if _, err := p.Create(in); err != nil {
		t.Errorf("exact-limit lengths should pass, got %v", err)
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	p := setupTestPosts(t)

	if _, err := p.Create(validInput()); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	// Different casing and punctuation, same slug.
	in := validInput()
	in.Title = "Test, Post!"
	_, err := p.Create(in)
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if cerr.Value != "test-post" {
		t.Errorf("conflict Value = %q, want %q", cerr.Value, "test-post")
	}
}

func TestUpdateKeepsSlug(t *testing.T) {
	p := setupTestPosts(t)

	post, err := p.Create(validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	in := validInput()
	in.Title = "Completely Different Title"
	updated, err := p.Update(post.ID, in)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Slug != "test-post" {
		t.Errorf("Slug = %q, want unchanged %q", updated.Slug, "test-post")
	}
	if updated.Title != "Completely Different Title" {
		t.Errorf("Title = %q, not updated", updated.Title)
	}
	if !updated.UpdatedAt.After(post.UpdatedAt) {
		t.Error("UpdatedAt should advance on update")
	}
	if !updated.CreatedAt.Equal(post.CreatedAt) {
		t.Error("CreatedAt should not change on update")
	}
}

func TestUpdateResanitizesContent(t *testing.T) {
	p := setupTestPosts(t)

	post, err := p.Create(validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	in := validInput()
	in.Content = "hello <script>alert(1)</script> world"
	updated, err := p.Update(post.ID, in)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if strings.Contains(updated.ContentHTML, "<script") {
		t.Errorf("ContentHTML should be sanitized, got %q", updated.ContentHTML)
	}
	if !strings.Contains(updated.ContentHTML, "hello") {
		t.Errorf("ContentHTML should keep safe text, got %q", updated.ContentHTML)
	}
}

func TestUpdateMissingPost(t *testing.T) {
	p := setupTestPosts(t)

	_, err := p.Update(999, validInput())
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeletePost(t *testing.T) {
	p := setupTestPosts(t)

	post, err := p.Create(validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := p.Delete(post.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, err = p.Get(post.ID)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("deleted post should be NotFound, got %v", err)
	}
	// Second delete reports NotFound too.
	if err := p.Delete(post.ID); !errors.As(err, &nf) {
		t.Errorf("double delete should be NotFound, got %v", err)
	}
}

func TestTogglePublish(t *testing.T) {
	p := setupTestPosts(t)

	post, err := p.Create(validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if post.Published {
		t.Fatal("post should start unpublished")
	}

	toggled, err := p.TogglePublish(post.ID)
	if err != nil {
		t.Fatalf("TogglePublish failed: %v", err)
	}
	if !toggled.Published {
		t.Error("first toggle should publish")
	}

	toggled, err = p.TogglePublish(post.ID)
	if err != nil {
		t.Fatalf("TogglePublish failed: %v", err)
	}
	if toggled.Published {
		t.Error("second toggle should unpublish")
	}

	var nf *NotFoundError
	if _, err := p.TogglePublish(999); !errors.As(err, &nf) {
		t.Errorf("toggle on missing post should be NotFound, got %v", err)
	}
}

func TestGetPublishedHidesDrafts(t *testing.T) {
	p := setupTestPosts(t)

	post, err := p.Create(validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var nf *NotFoundError
	if _, err := p.GetPublished(post.Slug); !errors.As(err, &nf) {
		t.Errorf("draft should be invisible to GetPublished, got %v", err)
	}

	if _, err := p.TogglePublish(post.ID); err != nil {
		t.Fatalf("TogglePublish failed: %v", err)
	}
	got, err := p.GetPublished(post.Slug)
	if err != nil {
		t.Fatalf("GetPublished failed: %v", err)
	}
	if got.ID != post.ID {
		t.Errorf("got post %d, want %d", got.ID, post.ID)
	}
}

func TestListOrdering(t *testing.T) {
	p := setupTestPosts(t)

	mk := func(title string, order int, published bool) Post {
		in := validInput()
		in.Title = title
		in.DisplayOrder = order
		in.Published = published
		post, err := p.Create(in)
		if err != nil {
			t.Fatalf("Create %q failed: %v", title, err)
		}
		return post
	}

	// Created in this order, clock advancing each time: later creation wins
	// the tie within the same display order.
	mk("Older Tie", 1, true)
	mk("Newer Tie", 1, true)
	mk("First", 0, true)
	mk("Draft", 0, false)
	mk("Last", 2, true)

	got, err := p.ListPublished()
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	want := []string{"First", "Newer Tie", "Older Tie", "Last"}
	if len(got) != len(want) {
		t.Fatalf("ListPublished count = %d, want %d", len(got), len(want))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("ListPublished[%d] = %q, want %q", i, got[i].Title, title)
		}
	}

	all, err := p.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("ListAll count = %d, want 5 (including draft)", len(all))
	}
}

func TestStats(t *testing.T) {
	p := setupTestPosts(t)

	for i, published := range []bool{true, true, false} {
		in := validInput()
		in.Title = "Post " + string(rune('A'+i))
		in.Published = published
		if _, err := p.Create(in); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	stats, err := p.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 3 || stats.Published != 2 || stats.Drafts != 1 {
		t.Errorf("Stats = %+v, want {3 2 1}", stats)
	}
}

func TestRecent(t *testing.T) {
	p := setupTestPosts(t)

	var first, last Post
	for i, title := range []string{"One", "Two", "Three"} {
		in := validInput()
		in.Title = title
		post, err := p.Create(in)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if i == 0 {
			first = post
		}
		last = post
	}
	// Editing the first post makes it the most recent.
	in := validInput()
	in.Title = "One"
	if _, err := p.Update(first.ID, in); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	recent, err := p.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent count = %d, want 2", len(recent))
	}
	if recent[0].Title != "One" {
		t.Errorf("Recent[0] = %q, want the just-edited post", recent[0].Title)
	}
	if recent[1].ID != last.ID {
		t.Errorf("Recent[1] = %q, want %q", recent[1].Title, last.Title)
	}
}
