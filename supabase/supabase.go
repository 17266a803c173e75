// Package supabase implements identity.Verifier against the Supabase GoTrue
// REST API.
package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"reelreviews/identity"
)

type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewClient builds a verifier for the project at baseURL. Either value may be
// empty; Verify then reports identity.ErrNotConfigured, which the HTTP layer
// surfaces as a 500 per request.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != "" && c.anonKey != ""
}

// Verify resolves the bearer token to its account via GET /auth/v1/user.
func (c *Client) Verify(ctx context.Context, token string) (identity.Principal, error) {
	if !c.Configured() {
		return identity.Principal{}, identity.ErrNotConfigured
	}
	if token == "" {
		return identity.Principal{}, identity.ErrTokenRequired
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return identity.Principal{}, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return identity.Principal{}, identity.ErrSessionInvalid
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return identity.Principal{}, identity.ErrSessionInvalid
	}

	var principal identity.Principal
	if err := json.NewDecoder(resp.Body).Decode(&principal); err != nil {
		return identity.Principal{}, identity.ErrSessionInvalid
	}
	if principal.ID == "" {
		return identity.Principal{}, identity.ErrSessionInvalid
	}

	return principal, nil
}
