package site

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/christinakneis/personal-site/content"
)

// Store wraps a SQLite database holding posts, settings, and admin users.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write, busy_timeout so writers wait instead of
	// failing with SQLITE_BUSY, synchronous=NORMAL is safe under WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL,
    content_type TEXT NOT NULL DEFAULT 'markdown',
    content_html TEXT NOT NULL,
    preview TEXT NOT NULL,
    image TEXT NOT NULL DEFAULT '',
    published INTEGER NOT NULL DEFAULT 0,
    featured INTEGER NOT NULL DEFAULT 0,
    show_dates INTEGER NOT NULL DEFAULT 1,
    display_order INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_order ON posts (published, display_order, created_at DESC);

CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    key TEXT NOT NULL UNIQUE,
    value TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    is_admin INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
`)
	return err
}

const postColumns = `id, title, slug, content, content_type, content_html, preview, image,
	published, featured, show_dates, display_order, created_at, updated_at`

// postOrder is the one ordering contract every public listing shares: manual
// order first, newest first among ties.
const postOrder = `display_order ASC, created_at DESC`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	var contentType, createdAt, updatedAt string
	var published, featured, showDates int
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &contentType, &p.ContentHTML,
		&p.Preview, &p.Image, &published, &featured, &showDates, &p.DisplayOrder,
		&createdAt, &updatedAt)
	if err != nil {
		return Post{}, err
	}
	p.ContentType = content.ParseType(contentType)
	p.Published = published == 1
	p.Featured = featured == 1
	p.ShowDates = showDates == 1
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) insertPost(p *Post) error {
	res, err := s.db.Exec(`INSERT INTO posts
		(title, slug, content, content_type, content_html, preview, image,
		 published, featured, show_dates, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Slug, p.Content, string(p.ContentType), p.ContentHTML, p.Preview, p.Image,
		boolToInt(p.Published), boolToInt(p.Featured), boolToInt(p.ShowDates), p.DisplayOrder,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// updatePost rewrites every mutable column. Slug and created_at are never
// touched after insert.
func (s *Store) updatePost(p *Post) error {
	res, err := s.db.Exec(`UPDATE posts SET
		title = ?, content = ?, content_type = ?, content_html = ?, preview = ?,
		image = ?, published = ?, featured = ?, show_dates = ?, display_order = ?,
		updated_at = ?
		WHERE id = ?`,
		p.Title, p.Content, string(p.ContentType), p.ContentHTML, p.Preview,
		p.Image, boolToInt(p.Published), boolToInt(p.Featured), boolToInt(p.ShowDates),
		p.DisplayOrder, formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) deletePost(id int64) error {
	res, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) getPost(id int64) (Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

func (s *Store) getPostBySlug(slug string, publishedOnly bool) (Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE slug = ?`
	if publishedOnly {
		q += ` AND published = 1`
	}
	return scanPost(s.db.QueryRow(q, slug))
}

func (s *Store) slugExists(slug string) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE slug = ?`, slug).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) listPosts(publishedOnly bool) ([]Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts`
	if publishedOnly {
		q += ` WHERE published = 1`
	}
	q += ` ORDER BY ` + postOrder
	rows, err := s.db.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// listRecent returns the most recently edited posts for the admin dashboard.
func (s *Store) listRecent(limit int) ([]Post, error) {
	rows, err := s.db.Query(`SELECT `+postColumns+` FROM posts ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *Store) countPosts(publishedOnly bool) (int, error) {
	q := `SELECT COUNT(*) FROM posts`
	if publishedOnly {
		q += ` WHERE published = 1`
	}
	var n int
	err := s.db.QueryRow(q).Scan(&n)
	return n, err
}

// --- settings ---

func (s *Store) getSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// setSetting upserts a key. An empty description leaves any stored
// description alone.
func (s *Store) setSetting(key, value, description string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value, description) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			description = CASE WHEN excluded.description = ''
				THEN settings.description ELSE excluded.description END`,
		key, value, description)
	return err
}

// --- users ---

func (s *Store) insertUser(u *User) error {
	res, err := s.db.Exec(`INSERT INTO users (username, email, password_hash, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, boolToInt(u.IsAdmin), formatTime(u.CreatedAt))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (s *Store) getUserByUsername(username string) (User, error) {
	var u User
	var isAdmin int
	var createdAt string
	err := s.db.QueryRow(`SELECT id, username, email, password_hash, is_admin, created_at
		FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &isAdmin, &createdAt)
	if err != nil {
		return User{}, err
	}
	u.IsAdmin = isAdmin == 1
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

func (s *Store) adminExists() (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE is_admin = 1`).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
