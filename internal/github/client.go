// Package github talks to github.com for OAuth account linking: exchanging
// an authorization code for an access token and fetching the user profile.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/CodeAfu/apu-code-collab-api/internal/config"
)

const (
	authorizeURL = "https://github.com/login/oauth/authorize"
	tokenURL     = "https://github.com/login/oauth/access_token"
	userURL      = "https://api.github.com/user"

	userAgent = "codecollab-api/1.0"
)

// scopes requested during the authorize redirect. The profile email must be
// readable so the callback can match the GitHub identity to a local account.
var scopes = []string{"user:email", "read:org", "read:user"}

var (
	// ErrExchangeFailed is returned when GitHub rejects the authorization code.
	ErrExchangeFailed = errors.New("github token exchange failed")
	// ErrProfileFailed is returned when the /user profile fetch is rejected.
	ErrProfileFailed = errors.New("github profile fetch failed")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("github unavailable")
)

// Profile is the subset of the GitHub /user payload the linking flow needs.
type Profile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// httpDoer is the interface used by Client for outbound requests. It is
// implemented by *http.Client and by test doubles.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs the GitHub OAuth handshake. Both outbound calls are wrapped
// in a shared circuit breaker; after 3 consecutive failures the breaker opens
// and subsequent calls fail fast with ErrUnavailable.
type Client struct {
	cfg  config.GitHubConfig
	cb   *gobreaker.CircuitBreaker
	http httpDoer
}

// NewClient creates a Client using a 10 second request timeout.
func NewClient(cfg config.GitHubConfig, cb *gobreaker.CircuitBreaker) *Client {
	return &Client{
		cfg: cfg,
		cb:  cb,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthorizeURL builds the GitHub authorize redirect target. The state value
// is echoed back on the callback and must be validated there.
func (c *Client) AuthorizeURL(state string) string {
	params := url.Values{
		"client_id":    {c.cfg.ClientID},
		"redirect_uri": {c.cfg.CallbackURL},
		"scope":        {strings.Join(scopes, " ")},
		"state":        {state},
	}
	return authorizeURL + "?" + params.Encode()
}

// ExchangeCode trades the OAuth authorization code for a user access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"code":          {code},
	}

	token, err := c.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode)
		}

		var payload struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrExchangeFailed, err)
		}
		if payload.AccessToken == "" {
			return nil, fmt.Errorf("%w: no access token in response", ErrExchangeFailed)
		}
		return payload.AccessToken, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return "", ErrUnavailable
		}
		return "", err
	}
	return token.(string), nil
}

// FetchUser retrieves the authenticated user's profile.
func (c *Client) FetchUser(ctx context.Context, accessToken string) (*Profile, error) {
	profile, err := c.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, userURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProfileFailed, err)
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", ErrProfileFailed, resp.StatusCode)
		}

		var p Profile
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&p); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrProfileFailed, err)
		}
		return &p, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return nil, ErrUnavailable
		}
		return nil, err
	}
	return profile.(*Profile), nil
}
