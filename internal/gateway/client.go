// Package gateway is the typed client for the KeepEvents REST API. It plays
// the repository role of this codebase: one file per aggregate, every method
// context-aware, cookie-session credentials carried by a per-client jar.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
)

// Client talks to one backend origin on behalf of one signed-in user. The
// cookie jar holds that user's backend session, so clients are never shared
// across sessions.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient creates a client for the given backend origin, e.g.
// "http://127.0.0.1:8000". No request timeout is set; calls are bounded only
// by the caller's context.
func NewClient(baseURL string) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend URL %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		base: base,
		http: &http.Client{Jar: jar},
	}, nil
}

// Cookies exports the backend session cookies for persistence.
func (c *Client) Cookies() []*http.Cookie {
	return c.http.Jar.Cookies(c.base)
}

// SetCookies restores previously exported backend session cookies.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.http.Jar.SetCookies(c.base, cookies)
}

// BaseURL returns the backend origin this client is bound to.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.base
	u.Path = path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// doJSON performs a JSON request against path and decodes the response into
// out when out is non-nil. Non-2xx responses become a typed *Error.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, query), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.send(req, out)
}

// doMultipart performs a multipart request; build writes the form parts.
func (c *Client) doMultipart(ctx context.Context, method, path string, build func(w *multipart.Writer) error, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := build(w); err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, nil), &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: err.Error(), kind: ErrNetwork}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Status: resp.StatusCode, Message: "unreadable response body", kind: ErrServer}
	}
	return nil
}

// decodeError extracts {"error": ...} / {"detail": ...} bodies when present;
// several backend endpoints return neither, so the status text is the
// fallback.
func decodeError(resp *http.Response) error {
	message := resp.Status

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(data) > 0 {
		var body struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &body) == nil {
			if body.Error != "" {
				message = body.Error
			} else if body.Detail != "" {
				message = body.Detail
			}
		}
	}

	return &Error{
		Status:  resp.StatusCode,
		Message: strings.TrimSpace(message),
		kind:    kindForStatus(resp.StatusCode),
	}
}
