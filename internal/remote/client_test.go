package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

type capturedRequest struct {
	method string
	path   string
	auth   string
	body   map[string]json.RawMessage
}

func newCapturingServer(t *testing.T, status int) (*httptest.Server, *capturedRequest) {
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &captured.body))
		w.WriteHeader(status)
	}))
	return server, captured
}

func TestExecute_RoutesEachOperationType(t *testing.T) {
	tests := []struct {
		opType entities.OperationType
		method string
		path   string
	}{
		{entities.OpAddFavoriteChapter, http.MethodPut, "/v1/favorites/chapters"},
		{entities.OpRemoveFavoriteChapter, http.MethodDelete, "/v1/favorites/chapters"},
		{entities.OpAddFavoriteReciter, http.MethodPut, "/v1/favorites/reciters"},
		{entities.OpRemoveFavoriteReciter, http.MethodDelete, "/v1/favorites/reciters"},
		{entities.OpUpdateReadingProgress, http.MethodPut, "/v1/progress"},
		{entities.OpTrackActivity, http.MethodPost, "/v1/activity"},
	}

	for _, tt := range tests {
		t.Run(string(tt.opType), func(t *testing.T) {
			server, captured := newCapturingServer(t, http.StatusOK)
			defer server.Close()

			client := NewClient(server.URL, "token-1")
			err := client.Execute(context.Background(), entities.QueuedOperation{
				UserID:            "user-1",
				OperationType:     tt.opType,
				Payload:           `{"chapter_number":36}`,
				ActivityTimestamp: time.Now(),
			})
			require.NoError(t, err)

			assert.Equal(t, tt.method, captured.method)
			assert.Equal(t, tt.path, captured.path)
			assert.Equal(t, "Bearer token-1", captured.auth)
		})
	}
}

func TestExecute_ForwardsPayloadAndTimestamp(t *testing.T) {
	server, captured := newCapturingServer(t, http.StatusOK)
	defer server.Close()

	at := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	client := NewClient(server.URL, "token-1")
	err := client.Execute(context.Background(), entities.QueuedOperation{
		OperationType:     entities.OpUpdateReadingProgress,
		Payload:           `{"chapter_number":2,"verse":255}`,
		ActivityTimestamp: at,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"chapter_number":2,"verse":255}`, string(captured.body["data"]))

	var occurredAt string
	require.NoError(t, json.Unmarshal(captured.body["occurred_at"], &occurredAt))
	assert.Equal(t, at.Format(time.RFC3339), occurredAt)
}

func TestExecute_UnknownTypeHasNoRoute(t *testing.T) {
	client := NewClient("http://localhost:0", "token-1")
	err := client.Execute(context.Background(), entities.QueuedOperation{
		OperationType: entities.OperationType("rename_account"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route")
}

func TestExecute_Unauthorized(t *testing.T) {
	server, _ := newCapturingServer(t, http.StatusUnauthorized)
	defer server.Close()

	client := NewClient(server.URL, "expired-token")
	err := client.Execute(context.Background(), entities.QueuedOperation{
		OperationType: entities.OpTrackActivity,
		Payload:       `{}`,
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestExecute_ServerError(t *testing.T) {
	server, _ := newCapturingServer(t, http.StatusBadGateway)
	defer server.Close()

	client := NewClient(server.URL, "token-1")
	err := client.Execute(context.Background(), entities.QueuedOperation{
		OperationType: entities.OpTrackActivity,
		Payload:       `{}`,
	})

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusBadGateway, serverErr.StatusCode)
}

func TestExecute_ClientErrorIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chapter out of range", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token-1")
	err := client.Execute(context.Background(), entities.QueuedOperation{
		OperationType: entities.OpAddFavoriteChapter,
		Payload:       `{"chapter_number":999}`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chapter out of range")
	assert.False(t, errors.Is(err, ErrUnauthorized))
}
