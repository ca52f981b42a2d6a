// ABOUTME: HTTP client for the outreach generation backend
// ABOUTME: Wraps GET /signals, POST /process-lead, run history and CRM sync endpoints
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/harperreed/autoreach/logging"
	"github.com/harperreed/autoreach/models"
)

var ErrEmptyBaseURL = errors.New("backend base URL is empty")

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 4096

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: backend returned %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: backend returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Options configures a Client.
type Options struct {
	BaseURL string

	// Token, when set, is sent as an OAuth2 bearer token
	Token string

	// Timeout bounds each request; zero means none
	Timeout time.Duration

	// HTTPClient overrides the transport (tests)
	HTTPClient *http.Client

	Logger *log.Logger
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *log.Logger
}

// NewClient validates the base URL and builds the HTTP client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, ErrEmptyBaseURL
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", opts.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if opts.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: opts.Token,
			TokenType:   "Bearer",
		}))
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		timeout: opts.Timeout,
		logger:  logging.OrDiscard(opts.Logger).With("component", "backend"),
	}, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListSignals fetches the signal feed.
func (c *Client) ListSignals(ctx context.Context) ([]models.Signal, error) {
	var signals []models.Signal
	if err := c.do(ctx, http.MethodGet, "/signals", nil, &signals); err != nil {
		return nil, err
	}
	return signals, nil
}

// ProcessLead runs a generation for one company/signal pair.
func (c *Client) ProcessLead(ctx context.Context, req models.ProcessLeadRequest) (*models.GenerationResult, error) {
	// a null body leaves result nil; callers treat that as a failed generation
	var result *models.GenerationResult
	if err := c.do(ctx, http.MethodPost, "/process-lead", req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListRuns returns recent generation runs, newest first.
func (c *Client) ListRuns(ctx context.Context) ([]models.GenerationResult, error) {
	var runs []models.GenerationResult
	if err := c.do(ctx, http.MethodGet, "/runs", nil, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// ListCRMEvents returns recent CRM sync events, newest first.
func (c *Client) ListCRMEvents(ctx context.Context) ([]models.CRMEvent, error) {
	var events []models.CRMEvent
	if err := c.do(ctx, http.MethodGet, "/crm/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SyncCRM pushes a routing decision to the backend's CRM sync endpoint.
func (c *Client) SyncCRM(ctx context.Context, event models.CRMEvent) (*models.CRMSyncResponse, error) {
	if event.RunID == "" {
		return nil, fmt.Errorf("run_id is required")
	}
	var resp models.CRMSyncResponse
	if err := c.do(ctx, http.MethodPost, "/crm/sync", event, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request complete", "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
