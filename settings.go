package site

// Settings keys consumed by the page renderers.
const (
	SettingPostsPerPage     = "posts_per_page"
	SettingBlogPostsPerPage = "blog_posts_per_page"

	DefaultPostsPerPage     = "6"
	DefaultBlogPostsPerPage = "10"
)

// Settings is a key→value site configuration store with upsert semantics.
// Values are plain strings; callers parse them as needed.
type Settings struct {
	store *Store
}

// NewSettings creates the settings store.
func NewSettings(store *Store) *Settings {
	return &Settings{store: store}
}

// Get returns the stored value for key, or fallback if the key is absent or
// the read fails. It never returns an error: settings are advisory and every
// consumer has a sensible default.
func (s *Settings) Get(key, fallback string) string {
	value, ok, err := s.store.getSetting(key)
	if err != nil || !ok {
		return fallback
	}
	return value
}

// Set upserts key to value. A non-empty description replaces the stored one;
// an empty description leaves it untouched.
func (s *Settings) Set(key, value, description string) error {
	if err := s.store.setSetting(key, value, description); err != nil {
		return &ServerError{Op: "set setting", Err: err}
	}
	return nil
}

// SeedDefaults installs the pagination settings created during first-run
// setup. Existing values are overwritten, matching the setup flow that only
// runs once.
func (s *Settings) SeedDefaults() error {
	if err := s.Set(SettingPostsPerPage, DefaultPostsPerPage, "Number of posts to show on homepage"); err != nil {
		return err
	}
	return s.Set(SettingBlogPostsPerPage, DefaultBlogPostsPerPage, "Number of posts to show per page on blog")
}
