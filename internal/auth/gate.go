package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var errNoProvider = errors.New("invalid login credentials")

// Gate tracks the current user for one browser session.
type Gate struct {
	store    SessionStore
	provider Provider
	admin    *Credentials
	log      *zap.Logger
	now      func() time.Time

	mu          sync.RWMutex
	user        *User
	loading     bool
	unsubscribe func()
}

// NewGate returns a Gate in the loading state. provider and admin may be
// nil; with both nil nobody can sign in.
func NewGate(store SessionStore, provider Provider, admin *Credentials, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{
		store:    store,
		provider: provider,
		admin:    admin,
		log:      log,
		now:      time.Now,
		loading:  true,
	}
}

// Init resolves the current user. A stored administrator flag wins without
// asking the provider; otherwise the provider's session is adopted and the
// Gate follows its state changes until Close. A provider error leaves the
// user signed out and is returned.
func (g *Gate) Init(ctx context.Context) error {
	if g.store != nil {
		ok, err := g.store.Get(ctx)
		if err != nil {
			g.log.Warn("reading admin session flag", zap.Error(err))
		}
		if ok && g.admin.enabled() {
			g.setUser(g.adminUser(), false)
			return nil
		}
		if ok {
			// the shortcut has been switched off since the flag was stored
			if err := g.store.Clear(ctx); err != nil {
				g.log.Warn("clearing stale admin session flag", zap.Error(err))
			}
		}
	}

	if g.provider == nil {
		g.setUser(nil, false)
		return nil
	}

	sess, err := g.provider.GetSession(ctx)
	if err != nil {
		g.setUser(nil, false)
		g.subscribe()
		return err
	}
	g.setUser(sessionUser(sess), false)
	g.subscribe()
	return nil
}

func (g *Gate) subscribe() {
	unsubscribe := g.provider.OnAuthStateChange(func(_ Event, s *Session) {
		g.setUser(sessionUser(s), false)
	})
	g.mu.Lock()
	g.unsubscribe = unsubscribe
	g.mu.Unlock()
}

// SignIn signs in the administrator locally or delegates to the provider.
// Failures are *AuthError.
func (g *Gate) SignIn(ctx context.Context, email, password string) error {
	if g.admin.match(email, password) {
		if g.store != nil {
			if err := g.store.Set(ctx); err != nil {
				return &AuthError{Message: "Could not save the session", Err: err}
			}
		}
		g.setUser(g.adminUser(), false)
		return nil
	}

	if g.provider == nil {
		return &AuthError{Message: "Invalid login credentials", Err: errNoProvider}
	}
	sess, err := g.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return &AuthError{Message: err.Error(), Err: err}
	}
	if g.store != nil {
		if err := g.store.Clear(ctx); err != nil {
			g.log.Warn("clearing admin session flag", zap.Error(err))
		}
	}
	g.setUser(sessionUser(sess), false)
	return nil
}

// SignOut clears the administrator flag and the current user, then signs
// out of the provider. Failures are logged, never returned.
func (g *Gate) SignOut(ctx context.Context) {
	if g.store != nil {
		if err := g.store.Clear(ctx); err != nil {
			g.log.Warn("clearing admin session flag", zap.Error(err))
		}
	}
	g.setUser(nil, false)
	if g.provider != nil {
		if err := g.provider.SignOut(ctx); err != nil {
			g.log.Warn("provider sign-out", zap.Error(err))
		}
	}
}

// User returns the current user or nil.
func (g *Gate) User() *User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return nil
	}
	u := *g.user
	return &u
}

// Loading is true until Init has resolved the user.
func (g *Gate) Loading() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loading
}

// Close stops following provider state changes.
func (g *Gate) Close() {
	g.mu.Lock()
	unsubscribe := g.unsubscribe
	g.unsubscribe = nil
	g.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (g *Gate) setUser(u *User, loading bool) {
	g.mu.Lock()
	g.user = u
	g.loading = loading
	g.mu.Unlock()
}

func (g *Gate) adminUser() *User {
	return &User{
		ID:        AdminUserID,
		Email:     g.admin.Email,
		Role:      RoleAdmin,
		CreatedAt: g.now(),
	}
}

func sessionUser(s *Session) *User {
	if s == nil {
		return nil
	}
	u := s.User
	return &u
}
