package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/pathcraft/internal/career"
)

const (
	// DefaultBaseURL is the hosted career advisor backend.
	DefaultBaseURL = "https://skill-up-react-website-backend.onrender.com"

	profilePath = "/api/career-profile"

	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 4 << 20
)

// ErrRequestFailed covers every way an advisor call can fail: transport
// errors, non-2xx statuses and undecodable bodies alike.
var ErrRequestFailed = errors.New("request failed")

// Advisor turns a career profile into recommendations.
type Advisor interface {
	Recommend(ctx context.Context, p career.Profile) (career.Recommendations, error)
}

// Client calls a remote advisor over HTTP. It performs a single attempt per
// call and sets no timeout of its own; the caller's context bounds the call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given base URL. An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
}

// NewClientWithHTTPClient creates a Client using a custom http.Client (for testing).
func NewClientWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := NewClient(baseURL)
	c.httpClient = hc
	return c
}

// BaseURL returns the advisor base URL requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Recommend POSTs the profile as JSON to /api/career-profile and decodes the
// response body into Recommendations.
func (c *Client) Recommend(ctx context.Context, p career.Profile) (career.Recommendations, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return career.Recommendations{}, fmt.Errorf("%w: marshaling profile: %v", ErrRequestFailed, err)
	}

	reqID := uuid.New().String()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+profilePath, bytes.NewReader(body))
	if err != nil {
		return career.Recommendations{}, fmt.Errorf("%w: creating request: %v", ErrRequestFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return career.Recommendations{}, fmt.Errorf("%w: executing request: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return career.Recommendations{}, fmt.Errorf("%w: reading response: %w", ErrRequestFailed, err)
	}

	c.logger.Debug("advisor responded",
		"request_id", reqID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return career.Recommendations{}, &StatusError{Code: resp.StatusCode, Body: truncate(string(respBody), 200)}
	}

	recs, err := career.DecodeRecommendations(respBody)
	if err != nil {
		return career.Recommendations{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	return recs, nil
}

// StatusError is returned for a non-2xx advisor response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("request failed: server error: %d %s", e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Unwrap() error { return ErrRequestFailed }

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
