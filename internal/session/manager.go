package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Juan-JM/SmartCart-Frotend/internal/domain"
)

var (
	// ErrInvalidCredentials is returned on a rejected login. The server
	// detail is deliberately not carried along: callers surface a
	// generic message.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionExpired is returned when the refresh token is missing
	// or rejected; the session has been torn down.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotAuthenticated is returned by calls that need a session
	// when none is held.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Manager owns the token pair and the user profile. Other components
// read them through accessors; only the manager mutates them.
//
// External observers see only authenticated/unauthenticated: the
// transient state during a refresh is internal.
type Manager struct {
	mu      sync.RWMutex
	tokens  domain.TokenPair
	profile *domain.UserProfile

	baseURL string
	store   TokenStore
	client  *http.Client
	logger  *slog.Logger
	sfg     singleflight.Group // coalesces concurrent profile fetches
}

// NewManager builds a manager talking to the API at baseURL (e.g.
// "https://host/api"). httpClient may be nil.
func NewManager(baseURL string, store TokenStore, httpClient *http.Client, logger *slog.Logger) *Manager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		client:  httpClient,
		logger:  logger,
	}
}

// Restore loads previously persisted tokens. Called once at startup;
// missing tokens leave the manager unauthenticated.
func (m *Manager) Restore() {
	tokens, err := m.store.Load()
	if err != nil {
		if !errors.Is(err, ErrNoTokens) {
			m.logger.Warn("discarding unreadable token store", "error", err)
		}
		return
	}
	m.mu.Lock()
	m.tokens = tokens
	m.mu.Unlock()
}

// IsAuthenticated reports whether an access token is held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.tokens.IsZero()
}

// AccessToken returns the current access token, or "".
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens.Access
}

// Tokens returns a copy of the current token pair.
func (m *Manager) Tokens() domain.TokenPair {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens
}

// Profile returns the cached profile, or nil when none was fetched yet.
func (m *Manager) Profile() *domain.UserProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile
}

// Login exchanges credentials for a token pair and loads the full
// profile with the fresh access token.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	var out struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	status, err := m.postJSON(ctx, "/token/", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if status >= 400 && status < 500 {
		return ErrInvalidCredentials
	}
	if status != http.StatusOK || out.Access == "" {
		return fmt.Errorf("login: unexpected status %d", status)
	}

	tokens := domain.TokenPair{Access: out.Access, Refresh: out.Refresh}
	m.setTokens(tokens)

	profile, err := m.getProfile(ctx, out.Access)
	if err != nil {
		return fmt.Errorf("load profile after login: %w", err)
	}
	m.mu.Lock()
	m.profile = profile
	m.mu.Unlock()

	m.logger.Info("session authenticated", "username", profile.Username)
	return nil
}

// Logout clears tokens and profile. Idempotent.
func (m *Manager) Logout() {
	m.mu.Lock()
	wasAuthenticated := !m.tokens.IsZero()
	m.tokens = domain.TokenPair{}
	m.profile = nil
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("clearing token store failed", "error", err)
	}
	if wasAuthenticated {
		m.logger.Info("session terminated")
	}
}

// Refresh exchanges the refresh token for a new access token. The
// refresh token itself is unchanged by a successful rotation. Any
// failure tears the session down and the refresh error is what the
// caller gets, not the 401 that triggered it.
//
// Concurrent refreshes are not coalesced: each caller performs its own
// exchange and the last writer wins on the stored access token.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.RLock()
	refresh := m.tokens.Refresh
	m.mu.RUnlock()

	if refresh == "" {
		m.Logout()
		return ErrSessionExpired
	}

	var out struct {
		Access string `json:"access"`
	}
	status, err := m.postJSON(ctx, "/token/refresh/", map[string]string{
		"refresh": refresh,
	}, &out)
	if err != nil {
		m.Logout()
		return fmt.Errorf("token refresh: %w", err)
	}
	if status != http.StatusOK || out.Access == "" {
		m.Logout()
		return fmt.Errorf("token refresh rejected (status %d): %w", status, ErrSessionExpired)
	}

	m.mu.Lock()
	m.tokens.Access = out.Access
	tokens := m.tokens
	m.mu.Unlock()

	if err := m.store.Save(tokens); err != nil {
		m.logger.Warn("persisting refreshed tokens failed", "error", err)
	}
	m.logger.Debug("access token refreshed")
	return nil
}

// FetchProfile re-fetches the profile with the current access token,
// e.g. after a restart when only tokens were persisted. Concurrent
// callers share one request.
func (m *Manager) FetchProfile(ctx context.Context) (*domain.UserProfile, error) {
	token := m.AccessToken()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	v, err, _ := m.sfg.Do("profile", func() (interface{}, error) {
		profile, err := m.getProfile(ctx, m.AccessToken())
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.profile = profile
		m.mu.Unlock()
		return profile, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.UserProfile), nil
}

func (m *Manager) getProfile(ctx context.Context, token string) (*domain.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/usuarios/profile/", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrNotAuthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch profile: unexpected status %d", resp.StatusCode)
	}

	var profile domain.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

func (m *Manager) setTokens(tokens domain.TokenPair) {
	m.mu.Lock()
	m.tokens = tokens
	m.mu.Unlock()

	if err := m.store.Save(tokens); err != nil {
		m.logger.Warn("persisting tokens failed", "error", err)
	}
}

// postJSON sends an unauthenticated JSON POST to the token endpoints
// and decodes a 2xx body into out. Non-2xx statuses are returned to the
// caller undecoded.
func (m *Manager) postJSON(ctx context.Context, path string, body, out interface{}) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
		return resp.StatusCode, nil
	}

	// drain so the connection can be reused
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	return resp.StatusCode, nil
}
