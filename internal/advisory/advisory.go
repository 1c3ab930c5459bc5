// Package advisory fetches a short encouragement message after a completed
// session from an HTTP text-generation endpoint. The service is best-effort:
// without credentials the client returns no message, and every failure is
// reported as an error for the caller to absorb.
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxMessageLen caps the message length; longer replies are cut at a word.
const maxMessageLen = 280

// Client calls the advisory endpoint.
type Client struct {
	url    string
	token  string
	client *http.Client
}

// New creates a Client. An empty url or token makes Message return no
// message without any network call.
func New(url, token string) *Client {
	return &Client{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether the client has what it needs to call out.
func (c *Client) Enabled() bool {
	return c.url != "" && c.token != ""
}

type request struct {
	SavedAmount float64 `json:"savedAmount"`
}

type response struct {
	Message string `json:"message"`
}

// Message asks the service for a message about savedAmount. It returns
// ("", nil) when the client is not configured.
func (c *Client) Message(ctx context.Context, savedAmount float64) (string, error) {
	if !c.Enabled() {
		return "", nil
	}

	body, err := json.Marshal(request{SavedAmount: savedAmount})
	if err != nil {
		return "", fmt.Errorf("advisory: marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("advisory: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisory: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("advisory: unexpected status %s", resp.Status)
	}

	var out response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&out); err != nil {
		return "", fmt.Errorf("advisory: decode: %w", err)
	}
	return shorten(strings.TrimSpace(out.Message)), nil
}

func shorten(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	cut := s[:maxMessageLen]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
