package postman

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blackcoderx/colsync/pkg/collection"
	"github.com/blackcoderx/colsync/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Postman API endpoint.
const DefaultBaseURL = "https://api.getpostman.com"

// maxErrorBody bounds the response text kept in an HTTPError.
const maxErrorBody = 500

// Config holds the client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RequestsPerMinute throttles outgoing calls. Zero disables throttling.
	RequestsPerMinute int
	// SkipTLSVerify disables certificate verification (postman.ssl_verify=false).
	SkipTLSVerify bool
}

// HTTPError is a non-2xx response from the API.
type HTTPError struct {
	StatusCode int
	Body       string
	// API is the parsed error body, nil when the body had none.
	API *APIError
}

func (e *HTTPError) Error() string {
	if e.API != nil {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.API)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Postman API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewClient creates a new Postman API client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.SkipTLSVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &Client{
		BaseURL: baseURL,
		APIKey:  cfg.APIKey,
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		limiter: limiter,
		logger:  logger,
	}
}

// Get fetches a collection by uid.
func (c *Client) Get(ctx context.Context, uid string) (*collection.Document, error) {
	data, err := c.do(ctx, http.MethodGet, "/collections/"+url.PathEscape(uid), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRemoteUnavailable, "failed to load collection").
			WithDetail("collection", uid)
	}
	doc, err := collection.ParseDocument(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRemoteUnavailable, "unexpected response format").
			WithDetail("collection", uid)
	}
	if !doc.Enveloped() {
		return nil, errors.New(errors.ErrNotFound, "Collection not found.").
			WithDetail("collection", uid)
	}
	return doc, nil
}

// Put replaces a collection with doc and returns the raw API response.
func (c *Client) Put(ctx context.Context, uid string, doc *collection.Document) ([]byte, error) {
	body, err := doc.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}
	if !doc.Enveloped() {
		body, err = json.Marshal(map[string]json.RawMessage{"collection": body})
		if err != nil {
			return nil, fmt.Errorf("failed to encode collection: %w", err)
		}
	}
	data, err := c.do(ctx, http.MethodPut, "/collections/"+url.PathEscape(uid), body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRemoteUnavailable, "failed to update collection").
			WithDetail("collection", uid)
	}
	return data, nil
}

// ListCollections returns the "collections" array of the API listing.
func (c *Client) ListCollections(ctx context.Context) (json.RawMessage, error) {
	return c.member(ctx, "/collections", "collections", json.RawMessage("[]"))
}

// GetCollectionRaw returns the API response for a collection unchanged.
func (c *Client) GetCollectionRaw(ctx context.Context, uid string) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodGet, "/collections/"+url.PathEscape(uid), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRemoteUnavailable, "failed to load collection").
			WithDetail("collection", uid)
	}
	return data, nil
}

// GetEnvironment returns the "environment" object for uid.
func (c *Client) GetEnvironment(ctx context.Context, uid string) (json.RawMessage, error) {
	return c.member(ctx, "/environments/"+url.PathEscape(uid), "environment", nil)
}

// member fetches path and extracts one top-level member of the response
// object. A missing member yields fallback, or the whole object when
// fallback is nil.
func (c *Client) member(ctx context.Context, path, key string, fallback json.RawMessage) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRemoteUnavailable, "GET %s failed", path)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, errors.New(errors.ErrRemoteUnavailable, "Unexpected response format.").
			WithDetail("path", path)
	}
	if v, ok := obj[key]; ok {
		return v, nil
	}
	if fallback != nil {
		return fallback, nil
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if c.APIKey == "" {
		return nil, errors.New(errors.ErrConfigLoad, "Missing POSTMAN_API_KEY.")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Postman API call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := string(data)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: text, API: ParseAPIError(string(data))}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []byte("{}"), nil
	}
	return data, nil
}
