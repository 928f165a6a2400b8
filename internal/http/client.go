package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is the per-request timeout used by NewClient.
const DefaultTimeout = 20 * time.Second

// StatusError is returned when the server answers with a non-200 status.
// It carries the status code so callers can classify failures (a 404 on an
// entity page means the identifier is unknown to the service).
type StatusError struct {
	// Code is the HTTP status code.
	Code int

	// Status is the status line reported by the server.
	Status string

	// URL is the requested URL.
	URL string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (%s)", e.Code, e.Status, e.URL)
}

// IsNotFound reports whether err is a StatusError with code 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client wraps HTTP operations for the library service.
//
// Client provides:
//   - A configured User-Agent header
//   - Per-request timeout handling
//   - Typed status errors for failure classification
//
// Example usage:
//
//	client := NewClient()
//
//	// Fetch an entity page
//	html, err := client.GetString(ctx, "https://bibliotheques-specialisees.paris.fr/ark:/12345/abc")
//
//	// Fetch a tile
//	tile, err := client.Get(ctx, tileURL)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client with the default timeout.
func NewClient() *Client {
	return NewClientWithTimeout(DefaultTimeout)
}

// NewClientWithTimeout creates a new HTTP client with the given per-request
// timeout.
func NewClientWithTimeout(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "grabs",
	}
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns a *StatusError if the response status is not 200 OK, or the
// transport error otherwise (timeouts and connection failures surface as
// *url.Error from net/http).
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: url}
	}

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a
// string. This is a convenience wrapper around Get for text content like
// HTML pages and JSON payloads.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
