// Package tagging is the client for the standalone BLIP image tagging
// service. Tagging is best effort: a failure here only leaves a draft
// untagged, it never fails an upload.
package tagging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
)

// Client posts single files to the tagging endpoint and returns the
// extracted tag list.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a tagging client for the given endpoint, e.g.
// "http://localhost:8001/image-to-tags".
func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{},
	}
}

// Tags sends one image and returns its tags. An empty tag list is a valid
// result.
func (c *Client) Tags(ctx context.Context, filename string, data []byte) ([]string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build tagging request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to build tagging request: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build tagging request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build tagging request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tagging service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tagging service returned status %d", resp.StatusCode)
	}

	var body struct {
		Tags []string `json:"tags"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("unreadable tagging response: %w", err)
	}
	if body.Tags == nil {
		body.Tags = []string{}
	}
	return body.Tags, nil
}
