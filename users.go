package site

import (
	"database/sql"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Users manages admin identities. The rest of the application only ever asks
// Authenticate; nothing else reads the user record.
type Users struct {
	store *Store
	posts *Posts // shares the clock for created_at
}

// NewUsers creates the user manager.
func NewUsers(store *Store, posts *Posts) *Users {
	return &Users{store: store, posts: posts}
}

// CreateAdmin creates the first administrative user. It refuses to run once
// an admin exists, so the setup page cannot be replayed.
func (u *Users) CreateAdmin(username, email, password string) (User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	switch {
	case len(username) < 3 || len(username) > 80:
		return User{}, &ValidationError{Field: "username", Reason: "must be 3-80 characters"}
	case email == "" || !strings.Contains(email, "@"):
		return User{}, &ValidationError{Field: "email", Reason: "must be a valid address"}
	case len(password) < 6:
		return User{}, &ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	exists, err := u.store.adminExists()
	if err != nil {
		return User{}, &ServerError{Op: "check admin", Err: err}
	}
	if exists {
		return User{}, &ConflictError{Resource: "admin user", Value: username}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, &ServerError{Op: "hash password", Err: err}
	}
	user := User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    u.posts.now(),
	}
	if err := u.store.insertUser(&user); err != nil {
		return User{}, &ServerError{Op: "insert user", Err: err}
	}
	return user, nil
}

// HasAdmin reports whether setup has already been completed.
func (u *Users) HasAdmin() (bool, error) {
	exists, err := u.store.adminExists()
	if err != nil {
		return false, &ServerError{Op: "check admin", Err: err}
	}
	return exists, nil
}

// Authenticate verifies a username/password pair. It returns false for
// unknown users and wrong passwords alike; the caller cannot tell which.
func (u *Users) Authenticate(username, password string) (User, bool) {
	user, err := u.store.getUserByUsername(strings.TrimSpace(username))
	if err == sql.ErrNoRows {
		// Burn a comparison anyway so the miss costs as much as a hit.
		bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000000000000000000000000000000000"), []byte(password))
		return User{}, false
	}
	if err != nil {
		return User{}, false
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return User{}, false
	}
	return user, true
}
