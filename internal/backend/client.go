// Package backend is the typed HTTP client for the membership REST backend.
// Every remote call the dashboard makes goes through one configured Client;
// failures are classified and normalized before they reach any UI surface.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"
)

// Client configuration constants.
const (
	RequestTimeout = 30 * time.Second
	MaxResponseLen = 10 * 1024 * 1024 // 10MB cap on response bodies
	UserAgent      = "memberdesk/1.0"
)

// Client talks to the membership backend. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given base URL. The client carries a cookie jar
// so backend-issued credentials ride along on subsequent requests.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: RequestTimeout,
			Jar:     jar,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewWithHTTPClient creates a Client using the given http.Client. Used by tests
// and by callers that need custom transport settings.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: hc}
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out (out may be nil to discard the body).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Err: fmt.Errorf("encoding request body: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Err: fmt.Errorf("creating request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

// doMultipart issues a request with a prebuilt multipart body.
func (c *Client) doMultipart(ctx context.Context, method, path string, form *multipartBody, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(form.data))
	if err != nil {
		return &RequestError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", form.contentType)

	return c.do(req, out)
}

// do sends the request and decodes the response. Non-2xx responses become a
// *StatusError carrying whatever message the body provides; transport failures
// become a *TransportError.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))
	if err != nil {
		return &TransportError{Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
