package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsanano/storefront-client/internal/model"
	"github.com/fsanano/storefront-client/internal/service/storeapi"
)

type stubAPI struct {
	session  model.Session
	loginErr error
}

func (s *stubAPI) Login(_ context.Context, _, _ string) (model.Session, error) {
	return s.session, s.loginErr
}

func (s *stubAPI) Signup(_ context.Context, _, _, _ string) (string, error) {
	return "registered", nil
}

func testSession() model.Session {
	return model.Session{
		User:  model.User{UserID: "u1", Username: "user", Email: "u@example.com"},
		Token: "tok-1",
	}
}

func newTestManager(t *testing.T, api *stubAPI, hooks Hooks) (*Manager, Store) {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	m, err := New(context.Background(), api, store, hooks)
	require.NoError(t, err)
	return m, store
}

func TestLogin_EstablishesAndPersists(t *testing.T) {
	m, store := newTestManager(t, &stubAPI{session: testSession()}, Hooks{})

	sess, err := m.Login(context.Background(), "u@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, "tok-1", m.Token())

	current, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, sess.User, current.User)

	persisted, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, sess, *persisted)
}

func TestLogin_FailureLeavesAnonymous(t *testing.T) {
	api := &stubAPI{loginErr: &storeapi.AuthError{Op: "login", Message: "invalid credentials"}}
	m, store := newTestManager(t, api, Hooks{})

	_, err := m.Login(context.Background(), "u@example.com", "wrong")
	var authErr *storeapi.AuthError
	require.ErrorAs(t, err, &authErr)

	_, ok := m.Current()
	assert.False(t, ok)
	assert.Empty(t, m.Token())

	persisted, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestRestore_FromStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), testSession()))

	m, err := New(context.Background(), &stubAPI{}, store, Hooks{})
	require.NoError(t, err)

	current, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "u1", current.User.UserID)
	assert.Equal(t, "tok-1", m.Token())
}

func TestLogout_Idempotent(t *testing.T) {
	var logoutCalls int
	m, store := newTestManager(t, &stubAPI{session: testSession()}, Hooks{
		OnLogout: func() { logoutCalls++ },
	})

	_, err := m.Login(context.Background(), "u@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, m.Logout(context.Background()))
	require.NoError(t, m.Logout(context.Background()))
	require.NoError(t, m.Logout(context.Background()))

	_, ok := m.Current()
	assert.False(t, ok)
	assert.Equal(t, 1, logoutCalls, "teardown hook fires once per session")

	persisted, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestLifetime_CancelledOnTeardown(t *testing.T) {
	m, _ := newTestManager(t, &stubAPI{session: testSession()}, Hooks{})

	// Anonymous lifetime starts out cancelled.
	select {
	case <-m.Lifetime().Done():
	default:
		t.Fatal("anonymous lifetime should be cancelled")
	}

	_, err := m.Login(context.Background(), "u@example.com", "secret")
	require.NoError(t, err)

	lifetime := m.Lifetime()
	select {
	case <-lifetime.Done():
		t.Fatal("active session lifetime should not be cancelled")
	default:
	}

	require.NoError(t, m.Logout(context.Background()))
	select {
	case <-lifetime.Done():
	default:
		t.Fatal("lifetime should be cancelled after logout")
	}
}

func TestHandleUnauthorized_SingleNavigation(t *testing.T) {
	var mu sync.Mutex
	var navigations, logouts int
	m, _ := newTestManager(t, &stubAPI{session: testSession()}, Hooks{
		OnLogout: func() {
			mu.Lock()
			logouts++
			mu.Unlock()
		},
		NavigateToLogin: func() {
			mu.Lock()
			navigations++
			mu.Unlock()
		},
	})

	_, err := m.Login(context.Background(), "u@example.com", "secret")
	require.NoError(t, err)

	// Two overlapping requests both see an auth failure.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.HandleUnauthorized()
		}()
	}
	wg.Wait()

	_, ok := m.Current()
	assert.False(t, ok)
	assert.Equal(t, 1, navigations, "exactly one navigation signal")
	assert.Equal(t, 1, logouts)
}

func TestHandleUnauthorized_NoSessionNoop(t *testing.T) {
	var navigations int
	m, _ := newTestManager(t, &stubAPI{}, Hooks{
		NavigateToLogin: func() { navigations++ },
	})

	m.HandleUnauthorized()

	assert.Equal(t, 0, navigations)
}

func TestOnLoginHook(t *testing.T) {
	var hookCtx context.Context
	m, _ := newTestManager(t, &stubAPI{session: testSession()}, Hooks{
		OnLogin: func(ctx context.Context) { hookCtx = ctx },
	})

	_, err := m.Login(context.Background(), "u@example.com", "secret")
	require.NoError(t, err)

	require.NotNil(t, hookCtx)
	require.NoError(t, hookCtx.Err())

	require.NoError(t, m.Logout(context.Background()))
	assert.True(t, errors.Is(hookCtx.Err(), context.Canceled))
}
