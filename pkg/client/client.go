// Package client is a Go client for the shortlink HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Link is a stored short link as returned by the API.
type Link struct {
	ShortID     string    `json:"short_id"`
	LongURL     string    `json:"long_url"`
	ShortURL    string    `json:"short_url"`
	DateCreated time.Time `json:"date_created"`
}

// APIError is returned for every non-2xx response.
type APIError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("shortlink: %d %s: %s", e.Status, e.Title, e.Detail)
	}

	return fmt.Sprintf("shortlink: %d %s", e.Status, e.Title)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsConflict reports whether err is a 409 from the API, such as a taken alias.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient makes the client send requests through hc. A nil hc is ignored.
// hc itself is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.custom = hc
		}
	}
}

// WithTimeout sets the request timeout. With WithHTTPClient the timeout
// applies to a copy of the supplied client, in either option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client calls the shorten and retrieve endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	custom  *http.Client
	timeout time.Duration
}

// New creates a client for the API served at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: -1,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.http = c.httpClient()

	return c
}

func (c *Client) httpClient() *http.Client {
	if c.custom == nil {
		timeout := c.timeout
		if timeout < 0 {
			timeout = defaultTimeout
		}

		return &http.Client{Timeout: timeout}
	}

	if c.timeout < 0 {
		return c.custom
	}

	hc := *c.custom
	hc.Timeout = c.timeout

	return &hc
}

// Shorten stores longURL, under customAlias when it is not empty.
func (c *Client) Shorten(ctx context.Context, longURL, customAlias string) (*Link, error) {
	body := struct {
		LongURL     string `json:"long_url"`
		CustomAlias string `json:"custom_alias,omitempty"`
	}{LongURL: longURL, CustomAlias: customAlias}

	var link Link
	if err := c.post(ctx, "/api/v1/shorten", body, &link); err != nil {
		return nil, err
	}

	return &link, nil
}

// Retrieve looks up the link stored under shortID.
func (c *Client) Retrieve(ctx context.Context, shortID string) (*Link, error) {
	body := struct {
		ShortID string `json:"short_id"`
	}{ShortID: shortID}

	var link Link
	if err := c.post(ctx, "/api/v1/retrieve", body, &link); err != nil {
		return nil, err
	}

	return &link, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var problem APIError
	if json.Unmarshal(data, &problem) == nil {
		if problem.Title != "" {
			apiErr.Title = problem.Title
		}

		apiErr.Detail = problem.Detail
	}

	return apiErr
}
