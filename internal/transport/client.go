package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single request
const DefaultTimeout = 10 * time.Second

// ErrUnreachable wraps network-level failures (no HTTP response at all)
var ErrUnreachable = errors.New("server unreachable")

// RequestFailedError is returned when the server answers with a non-2xx status
type RequestFailedError struct {
	Status  int
	Message string
}

func (e *RequestFailedError) Error() string {
	return e.Message
}

// IsTransportError returns true if err came from the transport layer
func IsTransportError(err error) bool {
	var rf *RequestFailedError
	return errors.As(err, &rf) || errors.Is(err, ErrUnreachable)
}

// Caller issues one action against the server. Every other component is
// built on this single primitive.
type Caller interface {
	Call(ctx context.Context, action string, payload, result any) error
}

// Client is an HTTP client for the game's single JSON endpoint
type Client struct {
	endpoint   string
	deviceID   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure Client implements Caller
var _ Caller = (*Client)(nil)

// NewClient creates a new Client that tags every request with deviceID
func NewClient(endpoint, deviceID string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		deviceID: deviceID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With(slog.String("component", "transport")),
	}
}

// errorBody is the server's failure payload
type errorBody struct {
	Error string `json:"error"`
}

// Call sends payload merged with {action, device_id} and decodes the JSON
// response into result. A malformed or empty success body leaves result
// untouched, as if the server had sent an empty object.
func (c *Client) Call(ctx context.Context, action string, payload, result any) error {
	start := time.Now()

	body, err := c.buildBody(action, payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			slog.String("action", action),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %s: %w", ErrUnreachable, action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		// A truncated body is treated like a malformed one
		c.logger.Debug("failed to read response", slog.String("action", action), slog.String("error", err.Error()))
		respBody = nil
	}

	c.logger.Debug("api call",
		slog.String("action", action),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		if json.Valid(respBody) {
			_ = json.Unmarshal(respBody, &eb)
		}
		msg := eb.Error
		if msg == "" {
			msg = fmt.Sprintf("http_%d", resp.StatusCode)
		}
		return &RequestFailedError{Status: resp.StatusCode, Message: msg}
	}

	if result == nil || len(respBody) == 0 || !json.Valid(respBody) {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		// Valid JSON of an unexpected shape: keep whatever decoded
		c.logger.Warn("unexpected response shape",
			slog.String("action", action),
			slog.String("error", err.Error()))
	}
	return nil
}

// Categories fetches the list of song categories
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp CategoriesResponse
	if err := c.Call(ctx, ActionCategories, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// Version fetches the server version string
func (c *Client) Version(ctx context.Context) (string, error) {
	var resp VersionResponse
	if err := c.Call(ctx, ActionVersion, nil, &resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

// DeviceID returns the identifier attached to every request
func (c *Client) DeviceID() string {
	return c.deviceID
}

// buildBody flattens payload into a JSON object and adds the common fields
func (c *Client) buildBody(action string, payload any) ([]byte, error) {
	fields := map[string]any{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("payload must be a JSON object: %w", err)
		}
	}

	fields["action"] = action
	if _, ok := fields["device_id"]; !ok && c.deviceID != "" {
		fields["device_id"] = c.deviceID
	}
	return json.Marshal(fields)
}
