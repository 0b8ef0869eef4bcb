package labarchives

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
)

// ClientConfig configures the HTTP store client.
type ClientConfig struct {
	// BaseURL is the API root, e.g. https://api.labarchives.example.
	BaseURL string
	// AccessKeyID and AccessToken authenticate this process against the
	// store. They are operator credentials, not caller credentials.
	AccessKeyID string
	AccessToken string
	// Timeout bounds each HTTP request. Defaults to 30s.
	Timeout time.Duration
	// MaxRetries bounds retries of transient failures. Defaults to 3.
	MaxRetries uint64
	Logger     zerolog.Logger
}

// Client is a Store backed by the LabArchives HTTP API. Transient
// failures (5xx, network errors) are retried with exponential backoff;
// everything else fails immediately.
type Client struct {
	baseURL     string
	accessKeyID string
	accessToken string
	maxRetries  uint64
	httpClient  *http.Client
	log         zerolog.Logger
}

// NewClient validates the config and builds a Client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("labarchives: base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		accessKeyID: cfg.AccessKeyID,
		accessToken: cfg.AccessToken,
		maxRetries:  maxRetries,
		httpClient:  &http.Client{Timeout: timeout},
		log:         cfg.Logger,
	}, nil
}

// ListNotebooks returns every notebook visible to the configured
// credentials.
func (c *Client) ListNotebooks(ctx context.Context) ([]Notebook, error) {
	var out []Notebook
	if err := c.getJSON(ctx, "/api/v1/notebooks", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPages returns the pages of one notebook.
func (c *Client) ListPages(ctx context.Context, notebookID string) ([]Page, error) {
	var out []Page
	path := "/api/v1/notebooks/" + url.PathEscape(notebookID) + "/pages"
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEntries returns the entries of one page.
func (c *Client) ListEntries(ctx context.Context, pageID string) ([]Entry, error) {
	var out []Entry
	path := "/api/v1/pages/" + url.PathEscape(pageID) + "/entries"
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEntry returns one entry by id, or ErrNotFound.
func (c *Client) GetEntry(ctx context.Context, entryID string) (*Entry, error) {
	var out Entry
	path := "/api/v1/entries/" + url.PathEscape(entryID)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// getJSON issues an authenticated GET and decodes the response body.
// 404 maps to ErrNotFound; 5xx and transport errors are retried.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if c.accessKeyID != "" {
			req.Header.Set("X-Access-Key-ID", c.accessKeyID)
			req.Header.Set("Authorization", "Bearer "+c.accessToken)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.Warn().Err(err).Str("path", path).Msg("store request failed")
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return backoff.Permanent(fmt.Errorf("labarchives: decoding %s: %w", path, err))
			}
			return nil
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrNotFound)
		case resp.StatusCode >= 500:
			c.log.Warn().Str("path", path).Str("status", resp.Status).Msg("store returned server error")
			return fmt.Errorf("labarchives: %s returned %s", path, resp.Status)
		default:
			return backoff.Permanent(fmt.Errorf("labarchives: %s returned %s", path, resp.Status))
		}
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return err
	}
	c.log.Debug().Str("path", path).Msg("store request ok")
	return nil
}
