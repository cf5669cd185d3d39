package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProductService is the CRUD surface of the catalog API. It is implemented
// by *Client and can be faked in tests.
type ProductService interface {
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, id int, p Product) (Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

// Ensure Client implements ProductService at compile time.
var _ ProductService = (*Client)(nil)

// Client talks to a fakestoreapi-compatible HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
	metrics   *Metrics
}

const (
	DefaultBaseURL   = "https://fakestoreapi.com"
	defaultUserAgent = "kiosk/0.1"
	defaultTimeout   = 10 * time.Second
	maxErrorBody     = 512
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger routes request logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records request outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListProducts retrieves the full product collection.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Product
	if err := c.do(ctx, http.MethodGet, "products", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateProduct posts p and returns whatever the service echoes back.
func (c *Client) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if c == nil {
		return Product{}, fmt.Errorf("client is nil")
	}
	var echoed Product
	if err := c.do(ctx, http.MethodPost, "products", p, &echoed); err != nil {
		return Product{}, err
	}
	return echoed, nil
}

// UpdateProduct replaces product id with p and returns the echoed record.
func (c *Client) UpdateProduct(ctx context.Context, id int, p Product) (Product, error) {
	if c == nil {
		return Product{}, fmt.Errorf("client is nil")
	}
	var echoed Product
	if err := c.do(ctx, http.MethodPut, productPath(id), p, &echoed); err != nil {
		return Product{}, err
	}
	return echoed, nil
}

// DeleteProduct removes product id. Any response body is ignored.
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, productPath(id), nil, nil)
}

func productPath(id int) string {
	return "products/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) (err error) {
	reqURL := c.baseURL.JoinPath(path)
	if !strings.HasPrefix(reqURL.Path, "/") {
		reqURL.Path = "/" + reqURL.Path
	}
	requestID := uuid.NewString()
	started := time.Now()
	defer func() {
		c.metrics.observe(method, started, err)
		attrs := []any{
			"method", method,
			"path", reqURL.Path,
			"request_id", requestID,
			"duration", time.Since(started).Round(time.Millisecond),
		}
		if err != nil {
			c.logger.Warn("catalog api request failed", append(attrs, "error", err)...)
			return
		}
		c.logger.Debug("catalog api request", attrs...)
	}()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Method: method, Path: reqURL.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteError{
			Method:     method,
			Path:       reqURL.Path,
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
		}
	}
	if dest == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, Path: reqURL.Path, Err: err}
	}
	// The demo API answers some writes with an empty body.
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
