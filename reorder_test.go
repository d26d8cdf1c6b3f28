package site

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"
)

func TestIntFieldUnmarshal(t *testing.T) {
	tests := []struct {
		in    string
		value int64
		valid bool
	}{
		{`3`, 3, true},
		{`"7"`, 7, true},
		{`" 7 "`, 7, true},
		{`2.0`, 2, true},
		{`"x"`, 0, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`{}`, 0, false},
		{`[1]`, 0, false},
	}
	for _, tt := range tests {
		var f IntField
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Errorf("Unmarshal(%s) returned error: %v", tt.in, err)
			continue
		}
		if f.Valid != tt.valid || (tt.valid && f.Value != tt.value) {
			t.Errorf("Unmarshal(%s) = {%d %v}, want {%d %v}", tt.in, f.Value, f.Valid, tt.value, tt.valid)
		}
	}
}

func reorderFixture(t *testing.T) (*Posts, []Post) {
	t.Helper()
	p := setupTestPosts(t)
	var posts []Post
	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		in := validInput()
		in.Title = title
		in.Published = true
		post, err := p.Create(in)
		if err != nil {
			t.Fatalf("Create %q failed: %v", title, err)
		}
		posts = append(posts, post)
	}
	return p, posts
}

func orderOf(t *testing.T, p *Posts, id int64) int {
	t.Helper()
	post, err := p.Get(id)
	if err != nil {
		t.Fatalf("Get %d failed: %v", id, err)
	}
	return post.DisplayOrder
}

func TestReorderAppliesBatch(t *testing.T) {
	p, posts := reorderFixture(t)

	applied, err := p.Reorder([]ReorderItem{
		{ID: Int(posts[0].ID), Order: Int(2)},
		{ID: Int(posts[1].ID), Order: Int(0)},
		{ID: Int(posts[2].ID), Order: Int(1)},
	})
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	if applied != 3 {
		t.Errorf("applied = %d, want 3", applied)
	}

	list, err := p.ListPublished()
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	want := []string{"Beta", "Gamma", "Alpha"}
	for i, title := range want {
		if list[i].Title != title {
			t.Errorf("list[%d] = %q, want %q", i, list[i].Title, title)
		}
	}
}

func TestReorderSkipsUnparsableItems(t *testing.T) {
	p, posts := reorderFixture(t)

	// The middle item's id did not parse; it is skipped, not fatal.
	var batch []ReorderItem
	if err := json.Unmarshal([]byte(`[
		{"id": `+itoa(posts[0].ID)+`, "order": 5},
		{"id": "x", "order": 6},
		{"id": "`+itoa(posts[2].ID)+`", "order": 9}
	]`), &batch); err != nil {
		t.Fatalf("unmarshal batch: %v", err)
	}

	applied, err := p.Reorder(batch)
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2 (invalid item skipped)", applied)
	}
	if got := orderOf(t, p, posts[0].ID); got != 5 {
		t.Errorf("posts[0] order = %d, want 5", got)
	}
	if got := orderOf(t, p, posts[1].ID); got != 0 {
		t.Errorf("posts[1] order = %d, want untouched 0", got)
	}
	if got := orderOf(t, p, posts[2].ID); got != 9 {
		t.Errorf("posts[2] order = %d, want 9", got)
	}
}

func TestReorderRepeatedIDLastWriteWins(t *testing.T) {
	p, posts := reorderFixture(t)

	// The same post twice in one batch, an unparsable item between them.
	var batch []ReorderItem
	if err := json.Unmarshal([]byte(`[
		{"id": `+itoa(posts[0].ID)+`, "order": 5},
		{"id": "x", "order": 2},
		{"id": `+itoa(posts[0].ID)+`, "order": 9}
	]`), &batch); err != nil {
		t.Fatalf("unmarshal batch: %v", err)
	}

	applied, err := p.Reorder(batch)
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if got := orderOf(t, p, posts[0].ID); got != 9 {
		t.Errorf("order = %d, want 9 (later item wins)", got)
	}
}

func TestReorderUnknownIDKeepsPriorUpdates(t *testing.T) {
	p, posts := reorderFixture(t)

	applied, err := p.Reorder([]ReorderItem{
		{ID: Int(posts[0].ID), Order: Int(7)},
		{ID: Int(999), Order: Int(1)},
		{ID: Int(posts[2].ID), Order: Int(2)},
	})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ID != 999 {
		t.Errorf("NotFoundError.ID = %d, want 999", nf.ID)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1 (only the item before the miss)", applied)
	}
	// The update staged before the unknown id stays committed.
	if got := orderOf(t, p, posts[0].ID); got != 7 {
		t.Errorf("posts[0] order = %d, want 7 (committed despite abort)", got)
	}
	// The item after the unknown id was never reached.
	if got := orderOf(t, p, posts[2].ID); got != 0 {
		t.Errorf("posts[2] order = %d, want untouched 0", got)
	}
}

func TestReorderEmptyBatch(t *testing.T) {
	p, _ := reorderFixture(t)

	applied, err := p.Reorder(nil)
	if err != nil {
		t.Fatalf("Reorder of empty batch failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("applied = %d, want 0", applied)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
