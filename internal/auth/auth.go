// Package auth decides who is signed in: either the configured administrator
// (a synthetic session kept in a SessionStore) or a user of the external auth
// service.
package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin         = "admin"
	RoleAuthenticated = "authenticated"

	// AdminUserID identifies the synthetic administrator.
	AdminUserID = "admin-user-id"
)

// User is the signed-in identity shown to the views.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is an external auth service session.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}

// Event is an auth state change reported by the Provider.
type Event string

const (
	SignedIn  Event = "SIGNED_IN"
	SignedOut Event = "SIGNED_OUT"
)

// Provider is the external auth service.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// GetSession returns nil, nil when nobody is signed in.
	GetSession(ctx context.Context) (*Session, error)
	// OnAuthStateChange calls fn on every sign-in and sign-out until the
	// returned func is called. A nil session means signed out.
	OnAuthStateChange(fn func(Event, *Session)) (unsubscribe func())
	// SignOut must succeed when there is no session.
	SignOut(ctx context.Context) error
}

// SessionStore persists the synthetic administrator flag for one browser.
type SessionStore interface {
	Get(ctx context.Context) (bool, error)
	Set(ctx context.Context) error
	Clear(ctx context.Context) error
}

// AuthError is a recoverable sign-in failure. Message is shown to the user.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// Credentials is the administrator pair that bypasses the external service.
// The password is kept only as a bcrypt hash.
type Credentials struct {
	Email        string
	PasswordHash string
}

func (c *Credentials) enabled() bool {
	return c != nil && c.Email != "" && c.PasswordHash != ""
}

func (c *Credentials) match(email, password string) bool {
	if !c.enabled() {
		return false
	}
	return email == c.Email && CheckPassword(c.PasswordHash, password)
}

// HashPassword returns the bcrypt hash stored in ADMIN_PASSWORD_HASH.
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword reports whether pw matches hash.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
