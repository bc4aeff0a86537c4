// Package client is a small API client for the blogspace backend. It keeps
// the short-lived access token in memory, carries the refresh cookie in its
// cookie jar, and on a 401 silently refreshes the token and replays the
// request exactly once. A failed refresh ends the session: the stored token
// is dropped and no further retry is attempted.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"

	"github.com/mdobak/go-xerrors"
)

var ErrSessionExpired = xerrors.Message("Session expired")

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Jar: jar},
	}, nil
}

func (c *Client) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// Do performs one API call. When the response is a 401 it calls the refresh
// endpoint once; on success the original request is replayed with the new
// token, on failure the session is over and ErrSessionExpired is returned.
func (c *Client) Do(ctx context.Context, method, path string, body any, dst any) error {
	resp, err := c.send(ctx, method, path, body, c.AccessToken())
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)

		token, refreshErr := c.Refresh(ctx)
		if refreshErr != nil {
			c.SetAccessToken("")
			return xerrors.New(ErrSessionExpired, refreshErr)
		}

		c.SetAccessToken(token)
		resp, err = c.send(ctx, method, path, body, token)
		if err != nil {
			return err
		}
	}

	return decode(resp, dst)
}

// Refresh exchanges the refresh cookie for a new access token. The caller
// decides what to do with it; Do stores it automatically.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/refresh", nil, "")
	if err != nil {
		return "", err
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := decode(resp, &result); err != nil {
		return "", err
	}

	return result.Token, nil
}

// Login authenticates and stores the returned access token. The refresh
// cookie lands in the jar as a side effect of the Set-Cookie header.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}

	resp, err := c.send(ctx, http.MethodPost, "/api/auth/login", body, "")
	if err != nil {
		return err
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := decode(resp, &result); err != nil {
		return err
	}

	c.SetAccessToken(result.Token)
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, xerrors.New(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, xerrors.New(err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return resp, nil
}

func decode(resp *http.Response, dst any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(resp.Body)
		return xerrors.New(fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(payload)))
	}

	if dst == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return xerrors.New(err)
	}

	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
