// Package remote talks to the backend API for user mutations. Its Client is
// the production implementation of the sync queue's executor: it knows how
// to replay each queued operation kind. The backend treats these endpoints
// as idempotent upserts/deletes, which is what makes at-least-once replay
// safe.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

const defaultTimeout = 30 * time.Second

// ErrUnauthorized indicates the user token was rejected by the backend.
var ErrUnauthorized = errors.New("backend rejected the user token")

// ServerError represents a 5xx error from the backend API.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("backend server error: HTTP %d", e.StatusCode)
}

// Client interfaces with the backend mutation API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a backend API client. token may be empty for signed-out
// sessions; replay then fails until the user signs in again.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// operationRoutes maps each operation kind to its backend endpoint.
var operationRoutes = map[entities.OperationType]struct {
	method string
	path   string
}{
	entities.OpAddFavoriteChapter:    {http.MethodPut, "/v1/favorites/chapters"},
	entities.OpRemoveFavoriteChapter: {http.MethodDelete, "/v1/favorites/chapters"},
	entities.OpAddFavoriteReciter:    {http.MethodPut, "/v1/favorites/reciters"},
	entities.OpRemoveFavoriteReciter: {http.MethodDelete, "/v1/favorites/reciters"},
	entities.OpUpdateReadingProgress: {http.MethodPut, "/v1/progress"},
	entities.OpTrackActivity:         {http.MethodPost, "/v1/activity"},
}

// Execute replays one queued operation against the backend. It satisfies
// syncqueue.Executor.
func (c *Client) Execute(ctx context.Context, op entities.QueuedOperation) error {
	route, ok := operationRoutes[op.OperationType]
	if !ok {
		return fmt.Errorf("no route for operation type %q", op.OperationType)
	}

	// The payload is forwarded opaquely; the activity timestamp rides along
	// so the backend orders last-write-wins edits by event time, not replay
	// time.
	body := map[string]json.RawMessage{
		"data": json.RawMessage(op.Payload),
	}
	at, err := json.Marshal(op.ActivityTimestamp.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("marshal activity timestamp: %w", err)
	}
	body["occurred_at"] = at

	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, route.method, c.baseURL+route.path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode}
	case resp.StatusCode >= 400:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
