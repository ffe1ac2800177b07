// Package peserta is the HTTP client for the external participant backend.
// The backend owns participant identity and persistence; this package only
// moves records to and from it.
package peserta

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"lomba17/internal/adapters/http/perf"
	"lomba17/internal/domain/participant"
)

// ErrUnreachable means the backend could not be reached or answered the
// health probe with a non-2xx status.
var ErrUnreachable = errors.New("participant backend unreachable")

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:5000"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// envelope is the backend's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client talks to the participant backend.
type Client struct {
	baseURL   string
	http      *http.Client
	collector *perf.Collector
}

// NewClient returns a client for baseURL. timeout bounds each request;
// collector may be nil.
func NewClient(baseURL string, timeout time.Duration, collector *perf.Collector) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		collector: collector,
	}
}

// BaseURL is the address shown to users when the backend is down.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health probes GET /health.
// POST: nil on any 2xx; ErrUnreachable (wrapping the cause) otherwise
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/health", "/health", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}
	return nil
}

// List returns every participant the backend holds.
func (c *Client) List(ctx context.Context) ([]participant.Participant, error) {
	var out []participant.Participant
	if err := c.call(ctx, http.MethodGet, "/api/peserta", "/api/peserta", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []participant.Participant{}
	}
	return out, nil
}

// Create posts a new participant record. The returned record carries the
// backend-assigned ID.
// PRE: p.ID is empty
func (c *Client) Create(ctx context.Context, p participant.Participant) (participant.Participant, error) {
	p.ID = ""
	var out participant.Participant
	if err := c.call(ctx, http.MethodPost, "/api/peserta", "/api/peserta", p, &out); err != nil {
		return participant.Participant{}, err
	}
	return out, nil
}

// Update replaces the editable fields of participant id.
func (c *Client) Update(ctx context.Context, id string, p participant.Participant) (participant.Participant, error) {
	if id == "" {
		return participant.Participant{}, participant.ErrMissingID
	}
	p.ID = id
	out := p
	if err := c.call(ctx, http.MethodPut, "/api/peserta/"+url.PathEscape(id), "/api/peserta/:id", p, &out); err != nil {
		return participant.Participant{}, err
	}
	return out, nil
}

// UpdateStatus sends {"status": status} only.
// PRE: participant.ValidStatus(status)
func (c *Client) UpdateStatus(ctx context.Context, id, status string) error {
	if id == "" {
		return participant.ErrMissingID
	}
	if !participant.ValidStatus(status) {
		return participant.ErrInvalidStatus
	}
	body := map[string]string{"status": status}
	return c.call(ctx, http.MethodPut, "/api/peserta/"+url.PathEscape(id), "/api/peserta/:id", body, nil)
}

// Delete removes participant id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return participant.ErrMissingID
	}
	return c.call(ctx, http.MethodDelete, "/api/peserta/"+url.PathEscape(id), "/api/peserta/:id", nil, nil)
}

// Action applies a quick action and returns the record as the backend left it.
// PRE: participant.ValidAction(action)
func (c *Client) Action(ctx context.Context, id, action string) (participant.Participant, error) {
	if id == "" {
		return participant.Participant{}, participant.ErrMissingID
	}
	if !participant.ValidAction(action) {
		return participant.Participant{}, participant.ErrInvalidAction
	}
	var out participant.Participant
	body := map[string]string{"action": action}
	if err := c.call(ctx, http.MethodPost, "/api/peserta/"+url.PathEscape(id)+"/action", "/api/peserta/:id/action", body, &out); err != nil {
		return participant.Participant{}, err
	}
	return out, nil
}

// call sends body as JSON and decodes the envelope's data into out (when
// non-nil). Non-2xx responses become *APIError; transport failures wrap
// ErrUnreachable.
func (c *Client) call(ctx context.Context, method, path, label string, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, label, err)
		}
		payload = bytes.NewReader(b)
	}

	resp, err := c.do(ctx, method, path, label, payload)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, label, ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", method, label, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, label, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, label string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	slog.Debug("backend_call", "request_id", reqID, "method", method, "path", label, "status", status, "duration_ms", durationMs)
	if c.collector != nil {
		c.collector.Record(perf.Entry{
			Kind:       perf.KindBackend,
			Path:       method + " " + label,
			StatusCode: status,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
	return resp, err
}
