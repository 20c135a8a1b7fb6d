package session

import (
	"net/http"
)

// Transport is an http.RoundTripper that attaches the bearer credential
// to every outbound request and performs at most one refresh-and-retry
// when the server answers 401.
//
// The retry guard is per request by construction: a 401 on the replayed
// request is returned to the caller as-is, never triggering a second
// refresh. Concurrent requests that each hit 401 each run their own
// refresh (last writer wins on the stored access token).
type Transport struct {
	manager *Manager
	base    http.RoundTripper
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(manager *Manager, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{manager: manager, base: base}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(t.authorize(req))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// Without a refresh token the session is over; the caller gets the
	// original 401.
	if t.manager.Tokens().Refresh == "" {
		t.manager.Logout()
		return resp, nil
	}

	// A request whose body cannot be replayed cannot be retried.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	resp.Body.Close()
	if err := t.manager.Refresh(req.Context()); err != nil {
		// Session torn down by Refresh; the refresh failure supersedes
		// the original 401.
		return nil, err
	}

	retry, err := t.replay(req)
	if err != nil {
		return nil, err
	}
	return t.base.RoundTrip(t.authorize(retry))
}

// authorize clones the request and sets the bearer header when a token
// is held. RoundTrippers must not mutate the caller's request.
func (t *Transport) authorize(req *http.Request) *http.Request {
	clone := req.Clone(req.Context())
	if token := t.manager.AccessToken(); token != "" {
		clone.Header.Set("Authorization", "Bearer "+token)
	} else {
		clone.Header.Del("Authorization")
	}
	return clone
}

func (t *Transport) replay(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}
