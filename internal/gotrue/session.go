package gotrue

import (
	"context"
	"errors"
	"sync"
	"time"

	"roomify/internal/auth"
)

// TokenStore keeps one browser's tokens.
type TokenStore interface {
	// Load returns nil, nil when nothing is stored.
	Load(ctx context.Context) (*Tokens, error)
	Save(ctx context.Context, t *Tokens) error
	Clear(ctx context.Context) error
}

// Session is the auth.Provider for one browser.
type Session struct {
	client *Client
	tokens TokenStore
	now    func() time.Time

	mu        sync.Mutex
	nextID    int
	listeners map[int]func(auth.Event, *auth.Session)
}

var _ auth.Provider = (*Session)(nil)

// Session binds the client to the tokens of one browser.
func (c *Client) Session(tokens TokenStore) *Session {
	return &Session{
		client:    c,
		tokens:    tokens,
		now:       time.Now,
		listeners: make(map[int]func(auth.Event, *auth.Session)),
	}
}

func (s *Session) SignInWithPassword(ctx context.Context, email, password string) (*auth.Session, error) {
	resp, err := s.client.passwordGrant(ctx, email, password)
	if err != nil {
		return nil, err
	}
	t := resp.tokens(s.now())
	if err := s.tokens.Save(ctx, &t); err != nil {
		return nil, err
	}
	sess := &auth.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.ExpiresAt,
		User:         resp.User.user(),
	}
	s.notify(auth.SignedIn, sess)
	return sess, nil
}

// GetSession validates the stored access token with GoTrue, refreshing it
// first when it has expired. Rejected tokens are dropped.
func (s *Session) GetSession(ctx context.Context) (*auth.Session, error) {
	t, err := s.tokens.Load(ctx)
	if err != nil || t == nil || t.AccessToken == "" {
		return nil, err
	}

	if t.expired(s.now()) && t.RefreshToken != "" {
		resp, err := s.client.refreshGrant(ctx, t.RefreshToken)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return nil, s.tokens.Clear(ctx)
			}
			return nil, err
		}
		refreshed := resp.tokens(s.now())
		if err := s.tokens.Save(ctx, &refreshed); err != nil {
			return nil, err
		}
		t = &refreshed
	}

	u, err := s.client.getUser(ctx, t.AccessToken)
	if errors.Is(err, ErrUnauthorized) {
		return nil, s.tokens.Clear(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &auth.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.ExpiresAt,
		User:         u.user(),
	}, nil
}

func (s *Session) OnAuthStateChange(fn func(auth.Event, *auth.Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SignOut revokes the stored token if there is one. The local tokens are
// cleared even when GoTrue cannot be reached.
func (s *Session) SignOut(ctx context.Context) error {
	t, err := s.tokens.Load(ctx)
	if err != nil {
		return err
	}
	var logoutErr error
	if t != nil && t.AccessToken != "" {
		logoutErr = s.client.logout(ctx, t.AccessToken)
		if errors.Is(logoutErr, ErrUnauthorized) {
			logoutErr = nil
		}
	}
	if err := s.tokens.Clear(ctx); err != nil {
		return err
	}
	s.notify(auth.SignedOut, nil)
	return logoutErr
}

func (s *Session) notify(e auth.Event, sess *auth.Session) {
	s.mu.Lock()
	fns := make([]func(auth.Event, *auth.Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(e, sess)
	}
}
