package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeProvider records calls and lets tests push state changes.
type fakeProvider struct {
	mu          sync.Mutex
	calls       []string
	session     *Session
	signInErr   error
	signOutErr  error
	getErr      error
	subscribers map[int]func(Event, *Session)
	nextID      int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{subscribers: make(map[int]func(Event, *Session))}
}

func (f *fakeProvider) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeProvider) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeProvider) SignInWithPassword(_ context.Context, email, _ string) (*Session, error) {
	f.record("signIn")
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.session = &Session{AccessToken: "token", User: User{ID: "u-1", Email: email, Role: RoleAuthenticated}}
	return f.session, nil
}

func (f *fakeProvider) GetSession(context.Context) (*Session, error) {
	f.record("getSession")
	return f.session, f.getErr
}

func (f *fakeProvider) OnAuthStateChange(fn func(Event, *Session)) func() {
	f.record("subscribe")
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subscribers[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.subscribers, id)
		f.mu.Unlock()
	}
}

func (f *fakeProvider) SignOut(context.Context) error {
	f.record("signOut")
	f.session = nil
	return f.signOutErr
}

func (f *fakeProvider) emit(e Event, s *Session) {
	f.mu.Lock()
	subs := make([]func(Event, *Session), 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		subs = append(subs, fn)
	}
	f.mu.Unlock()
	for _, fn := range subs {
		fn(e, s)
	}
}

func (f *fakeProvider) subscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}

func adminCredentials(t *testing.T) *Credentials {
	t.Helper()
	hash, err := HashPassword("admin1234")
	require.NoError(t, err)
	return &Credentials{Email: "admin@roomify.com", PasswordHash: hash}
}

func TestSignInAdminSkipsProvider(t *testing.T) {
	ctx := context.Background()
	store := &MemorySessionStore{}
	provider := newFakeProvider()
	g := NewGate(store, provider, adminCredentials(t), nil)

	require.NoError(t, g.SignIn(ctx, "admin@roomify.com", "admin1234"))

	assert.Empty(t, provider.Calls())
	flag, _ := store.Get(ctx)
	assert.True(t, flag)
	require.NotNil(t, g.User())
	assert.Equal(t, AdminUserID, g.User().ID)
	assert.Equal(t, RoleAdmin, g.User().Role)
}

func TestSignInDelegatesOtherCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("success clears admin flag", func(t *testing.T) {
		store := &MemorySessionStore{}
		require.NoError(t, store.Set(ctx))
		provider := newFakeProvider()
		g := NewGate(store, provider, adminCredentials(t), nil)

		require.NoError(t, g.SignIn(ctx, "jane@example.com", "secret"))

		assert.Equal(t, []string{"signIn"}, provider.Calls())
		flag, _ := store.Get(ctx)
		assert.False(t, flag)
		assert.Equal(t, "jane@example.com", g.User().Email)
	})

	t.Run("admin email with wrong password", func(t *testing.T) {
		provider := newFakeProvider()
		provider.signInErr = errors.New("Invalid login credentials")
		g := NewGate(&MemorySessionStore{}, provider, adminCredentials(t), nil)

		err := g.SignIn(ctx, "admin@roomify.com", "nope")

		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "Invalid login credentials", authErr.Message)
		assert.Equal(t, []string{"signIn"}, provider.Calls())
		assert.Nil(t, g.User())
	})

	t.Run("no provider configured", func(t *testing.T) {
		g := NewGate(&MemorySessionStore{}, nil, nil, nil)
		var authErr *AuthError
		require.ErrorAs(t, g.SignIn(ctx, "a@b.c", "x"), &authErr)
	})
}

func TestSignOutAlwaysClearsFlag(t *testing.T) {
	ctx := context.Background()
	store := &MemorySessionStore{}
	provider := newFakeProvider()
	provider.signOutErr = errors.New("no session")
	g := NewGate(store, provider, adminCredentials(t), nil)
	require.NoError(t, g.SignIn(ctx, "admin@roomify.com", "admin1234"))

	assert.NotPanics(t, func() { g.SignOut(ctx) })

	flag, _ := store.Get(ctx)
	assert.False(t, flag)
	assert.Nil(t, g.User())
	assert.Equal(t, []string{"signOut"}, provider.Calls())

	// nothing signed in at all
	assert.NotPanics(t, func() { NewGate(&MemorySessionStore{}, nil, nil, nil).SignOut(ctx) })
}

func TestInitPrecedence(t *testing.T) {
	ctx := context.Background()

	t.Run("stored admin flag wins without provider", func(t *testing.T) {
		store := &MemorySessionStore{}
		require.NoError(t, store.Set(ctx))
		provider := newFakeProvider()
		g := NewGate(store, provider, adminCredentials(t), nil)
		assert.True(t, g.Loading())

		require.NoError(t, g.Init(ctx))

		assert.False(t, g.Loading())
		assert.Equal(t, AdminUserID, g.User().ID)
		assert.Empty(t, provider.Calls())
	})

	t.Run("stale flag is ignored once the shortcut is off", func(t *testing.T) {
		store := &MemorySessionStore{}
		require.NoError(t, store.Set(ctx))
		provider := newFakeProvider()
		g := NewGate(store, provider, nil, nil)
		defer g.Close()

		require.NoError(t, g.Init(ctx))

		assert.Nil(t, g.User())
		flag, _ := store.Get(ctx)
		assert.False(t, flag)
	})

	t.Run("provider session adopted and followed", func(t *testing.T) {
		provider := newFakeProvider()
		provider.session = &Session{User: User{ID: "u-9", Email: "kim@example.com"}}
		g := NewGate(&MemorySessionStore{}, provider, adminCredentials(t), nil)

		require.NoError(t, g.Init(ctx))
		assert.Equal(t, []string{"getSession", "subscribe"}, provider.Calls())
		assert.Equal(t, "u-9", g.User().ID)

		provider.emit(SignedOut, nil)
		assert.Nil(t, g.User())

		provider.emit(SignedIn, &Session{User: User{ID: "u-10"}})
		assert.Equal(t, "u-10", g.User().ID)

		g.Close()
		assert.Equal(t, 0, provider.subscriberCount())
		provider.emit(SignedOut, nil)
		assert.Equal(t, "u-10", g.User().ID, "closed gate stops following")
	})

	t.Run("provider error leaves user signed out", func(t *testing.T) {
		provider := newFakeProvider()
		provider.getErr = errors.New("network down")
		g := NewGate(&MemorySessionStore{}, provider, nil, nil)
		defer g.Close()

		assert.Error(t, g.Init(ctx))
		assert.False(t, g.Loading())
		assert.Nil(t, g.User())
	})
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "pw"))
	assert.False(t, CheckPassword(hash, "PW"))
	assert.False(t, CheckPassword("not-a-hash", "pw"))
}
