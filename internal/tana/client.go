// Package tana is a small client for the Tana input API: it posts encoded
// node trees under a target node, spacing calls with a rate limiter and
// retrying once when the API answers 429.
package tana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/itsmostafa/tanaline/internal/logging"
	"github.com/itsmostafa/tanaline/internal/node"
	"github.com/itsmostafa/tanaline/internal/version"
)

const (
	// DefaultEndpoint is the addToNodeV2 function of the input API.
	DefaultEndpoint = "https://europe-west1-tagr-prod.cloudfunctions.net/addToNodeV2"

	// DefaultInterval is the minimum spacing between two calls.
	DefaultInterval = 2 * time.Second

	// DefaultRetryDelay is how long to wait before the single retry after 429.
	DefaultRetryDelay = 5 * time.Second

	// Targets understood by the API besides node ids.
	TargetInbox  = "INBOX"
	TargetSchema = "SCHEMA"
)

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tana API error (status %d): %s", e.StatusCode, truncate(e.Body, 200))
}

// Client posts to the input API.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	retryDelay time.Duration
	dumpDir    string
	encodeOpts []node.EncodeOption
	logger     logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides DefaultEndpoint.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter sets the limiter every call waits on. Share one limiter
// between clients that talk to the same account.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithRetryDelay overrides DefaultRetryDelay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// WithDumpDir writes the payload of failed submissions to dir.
func WithDumpDir(dir string) Option {
	return func(c *Client) { c.dumpDir = dir }
}

// WithEncodeOptions passes options to node.EncodeAll.
func WithEncodeOptions(opts ...node.EncodeOption) Option {
	return func(c *Client) { c.encodeOpts = append(c.encodeOpts, opts...) }
}

// WithLogger sets the client logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewLimiter returns a limiter allowing one call per interval.
func NewLimiter(interval time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(interval), 1)
}

// NewClient creates a client authenticating with token.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("tana API token not set")
	}
	c := &Client{
		endpoint:   DefaultEndpoint,
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.limiter == nil {
		c.limiter = NewLimiter(DefaultInterval)
	}
	c.logger = logging.OrNoOp(c.logger)
	return c, nil
}

// Submit creates nodes under targetID (a node id, TargetInbox or
// TargetSchema; empty lets the API pick) and returns the created tree. The
// children of the returned node carry the assigned node ids.
func (c *Client) Submit(ctx context.Context, targetID string, nodes ...*node.Node) (*node.Node, error) {
	docs, err := node.EncodeAll(nodes, c.encodeOpts...)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{"nodes": docs}
	if targetID != "" {
		payload["targetNodeId"] = targetID
	}
	return c.post(ctx, payload)
}

// SetName renames the node targetID.
func (c *Client) SetName(ctx context.Context, targetID, name string) (*node.Node, error) {
	if targetID == "" {
		return nil, fmt.Errorf("rename needs a target node id")
	}
	return c.post(ctx, map[string]any{
		"targetNodeId": targetID,
		"setName":      name,
	})
}

func (c *Client) post(ctx context.Context, payload map[string]any) (*node.Node, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, err := c.do(ctx, body)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			c.dump(body, se)
		}
		return nil, err
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return node.NewGeneric(""), nil
	}
	created, err := node.Decode(respBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return created, nil
}

// do sends body, retrying exactly once after a 429.
func (c *Client) do(ctx context.Context, body []byte) ([]byte, error) {
	respBody, status, err := c.send(ctx, body)
	if err != nil {
		return nil, err
	}
	if status == http.StatusTooManyRequests {
		c.logger.Warn("rate limited, retrying once", "delay", c.retryDelay.String())
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
		respBody, status, err = c.send(ctx, body)
		if err != nil {
			return nil, err
		}
	}
	if status < 200 || status >= 300 {
		return nil, &StatusError{StatusCode: status, Body: string(respBody)}
	}
	return respBody, nil
}

func (c *Client) send(ctx context.Context, body []byte) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("User-Agent", version.UserAgent())

	c.logger.Debug("posting to tana", "bytes", len(body))
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("tana request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}

// dump records the payload of a failed submission once.
func (c *Client) dump(body []byte, se *StatusError) {
	if c.dumpDir != "" {
		path, err := writeDump(c.dumpDir, body)
		if err == nil {
			c.logger.Error("tana submission failed", "status", se.StatusCode, "payload_file", path)
			return
		}
		c.logger.Warn("failed to write payload dump", "error", err)
	}
	c.logger.Error("tana submission failed", "status", se.StatusCode, "payload", truncate(string(body), 2000))
}

func writeDump(dir string, body []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "payload-"+uuid.NewString()+".json")
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
