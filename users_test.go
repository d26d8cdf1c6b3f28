package site

import (
	"errors"
	"strings"
	"testing"
)

func setupTestUsers(t *testing.T) *Users {
	t.Helper()
	store := setupTestStore(t)
	return NewUsers(store, NewPosts(store, testClock()))
}

func TestCreateAdmin(t *testing.T) {
	u := setupTestUsers(t)

	has, err := u.HasAdmin()
	if err != nil {
		t.Fatalf("HasAdmin failed: %v", err)
	}
	if has {
		t.Fatal("fresh store should have no admin")
	}

	user, err := u.CreateAdmin("christina", "c@example.com", "secret1")
	if err != nil {
		t.Fatalf("CreateAdmin failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("ID should be assigned")
	}
	if !user.IsAdmin {
		t.Error("IsAdmin should be true")
	}
	if user.PasswordHash == "secret1" {
		t.Error("password must not be stored in the clear")
	}

	has, err = u.HasAdmin()
	if err != nil {
		t.Fatalf("HasAdmin failed: %v", err)
	}
	if !has {
		t.Error("HasAdmin should be true after setup")
	}
}

func TestCreateAdminValidation(t *testing.T) {
	u := setupTestUsers(t)

	tests := []struct {
		name, username, email, password string
	}{
		{"short username", "ab", "a@b.com", "secret1"},
		{"long username", strings.Repeat("a", 81), "a@b.com", "secret1"},
		{"bad email", "christina", "not-an-email", "secret1"},
		{"short password", "christina", "a@b.com", "12345"},
	}
	for _, tt := range tests {
		_, err := u.CreateAdmin(tt.username, tt.email, tt.password)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %v", tt.name, err)
		}
	}
}

func TestCreateAdminOnlyOnce(t *testing.T) {
	u := setupTestUsers(t)

	if _, err := u.CreateAdmin("christina", "c@example.com", "secret1"); err != nil {
		t.Fatalf("CreateAdmin failed: %v", err)
	}
	_, err := u.CreateAdmin("other", "o@example.com", "secret2")
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("second admin should conflict, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	u := setupTestUsers(t)

	if _, err := u.CreateAdmin("christina", "c@example.com", "secret1"); err != nil {
		t.Fatalf("CreateAdmin failed: %v", err)
	}

	if _, ok := u.Authenticate("christina", "secret1"); !ok {
		t.Error("correct credentials should authenticate")
	}
	if _, ok := u.Authenticate("christina", "wrong"); ok {
		t.Error("wrong password should fail")
	}
	if _, ok := u.Authenticate("nobody", "secret1"); ok {
		t.Error("unknown user should fail")
	}
	// Whitespace around the username is trimmed, same as setup does.
	if _, ok := u.Authenticate("  christina  ", "secret1"); !ok {
		t.Error("trimmed username should authenticate")
	}
}
