package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Juan-JM/SmartCart-Frotend/internal/domain"
)

type fakeBackend struct {
	m             sync.Mutex
	validUser     string
	validPass     string
	access        string
	refresh       string
	refreshCalls  int
	rejectRefresh bool
	profile       domain.UserProfile
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token/", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Username, Password string }
		json.NewDecoder(r.Body).Decode(&in)
		if in.Username != b.validUser || in.Password != b.validPass {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "No active account found with the given credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access": b.access, "refresh": b.refresh})
	})
	mux.HandleFunc("POST /token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		b.m.Lock()
		b.refreshCalls++
		reject := b.rejectRefresh
		b.m.Unlock()
		var in struct{ Refresh string }
		json.NewDecoder(r.Body).Decode(&in)
		if reject || in.Refresh != b.refresh {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Token is invalid or expired"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access": b.access + "-rotated"})
	})
	mux.HandleFunc("GET /usuarios/profile/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(b.profile)
	})
	return mux
}

func newTestBackend() *fakeBackend {
	return &fakeBackend{
		validUser: "maria",
		validPass: "s3cret",
		access:    "access-token",
		refresh:   "refresh-token",
		profile: domain.UserProfile{
			ID:       7,
			Username: "maria",
			IsStaff:  false,
			Groups: []domain.Group{
				{Name: "Cliente", Permissions: []string{"ventas.add_notaventa"}},
			},
			Customer: &domain.CustomerProfile{ID: 31, Name: "Maria Lopez"},
		},
	}
}

func newTestManager(t *testing.T, b *fakeBackend) (*Manager, *MemoryTokenStore) {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)
	store := &MemoryTokenStore{}
	return NewManager(srv.URL, store, srv.Client(), nil), store
}

func TestLogin_Success(t *testing.T) {
	b := newTestBackend()
	mgr, store := newTestManager(t, b)

	err := mgr.Login(context.Background(), "maria", "s3cret")
	require.NoError(t, err)

	assert.True(t, mgr.IsAuthenticated())
	assert.Equal(t, "access-token", mgr.AccessToken())
	assert.Equal(t, "refresh-token", mgr.Tokens().Refresh)

	profile := mgr.Profile()
	require.NotNil(t, profile)
	assert.Equal(t, "maria", profile.Username)
	require.NotNil(t, profile.Customer)
	assert.Equal(t, int64(31), profile.Customer.ID)

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-token", persisted.Access)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	b := newTestBackend()
	mgr, _ := newTestManager(t, b)

	err := mgr.Login(context.Background(), "maria", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, mgr.IsAuthenticated())
	// the server's detail message must not leak through
	assert.NotContains(t, err.Error(), "No active account")
}

func TestLogout_Idempotent(t *testing.T) {
	b := newTestBackend()
	mgr, store := newTestManager(t, b)

	require.NoError(t, mgr.Login(context.Background(), "maria", "s3cret"))
	mgr.Logout()
	mgr.Logout()

	assert.False(t, mgr.IsAuthenticated())
	assert.Nil(t, mgr.Profile())
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoTokens)
}

func TestRefresh_RotatesAccessKeepsRefresh(t *testing.T) {
	b := newTestBackend()
	mgr, _ := newTestManager(t, b)
	require.NoError(t, mgr.Login(context.Background(), "maria", "s3cret"))

	require.NoError(t, mgr.Refresh(context.Background()))

	assert.Equal(t, "access-token-rotated", mgr.AccessToken())
	assert.Equal(t, "refresh-token", mgr.Tokens().Refresh)
}

func TestRefresh_FailureTearsDownSession(t *testing.T) {
	b := newTestBackend()
	mgr, store := newTestManager(t, b)
	require.NoError(t, mgr.Login(context.Background(), "maria", "s3cret"))

	b.m.Lock()
	b.rejectRefresh = true
	b.m.Unlock()

	err := mgr.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, mgr.IsAuthenticated())
	assert.Nil(t, mgr.Profile())
	_, loadErr := store.Load()
	assert.ErrorIs(t, loadErr, ErrNoTokens)
}

func TestRefresh_WithoutRefreshToken(t *testing.T) {
	b := newTestBackend()
	mgr, _ := newTestManager(t, b)

	err := mgr.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 0, b.refreshCalls, "no refresh call without a token")
}

func TestRestore(t *testing.T) {
	b := newTestBackend()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	store := &MemoryTokenStore{}
	require.NoError(t, store.Save(domain.TokenPair{Access: "persisted-access", Refresh: "persisted-refresh"}))

	mgr := NewManager(srv.URL, store, srv.Client(), nil)
	mgr.Restore()

	assert.True(t, mgr.IsAuthenticated())
	assert.Equal(t, "persisted-access", mgr.AccessToken())
	assert.Nil(t, mgr.Profile(), "profile is not persisted, only tokens")
}

func TestFetchProfile(t *testing.T) {
	b := newTestBackend()
	mgr, _ := newTestManager(t, b)
	require.NoError(t, mgr.Login(context.Background(), "maria", "s3cret"))

	profile, err := mgr.FetchProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "maria", profile.Username)

	perms := profile.EffectivePermissions()
	assert.True(t, perms.Has("ventas.add_notaventa"))
}

func TestFetchProfile_Unauthenticated(t *testing.T) {
	b := newTestBackend()
	mgr, _ := newTestManager(t, b)

	_, err := mgr.FetchProfile(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
