package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

type fakeSyncStore struct {
	count int64
	items []entities.QueuedOperation
}

func (s *fakeSyncStore) PendingCount(userID string) (int64, error) {
	return s.count, nil
}

func (s *fakeSyncStore) PendingItems(userID string) ([]entities.QueuedOperation, error) {
	return s.items, nil
}

type fakeApplier struct {
	lastOp *entities.QueuedOperation
	queued bool
	err    error
}

func (a *fakeApplier) Apply(ctx context.Context, op *entities.QueuedOperation) (bool, error) {
	a.lastOp = op
	return a.queued, a.err
}

func setupSyncRouter(store SyncStore, applier MutationApplier, drain DrainTrigger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewSyncController(store, applier, drain)
	router.POST("/api/mutations", controller.Apply)
	router.GET("/api/sync/pending", controller.Pending)
	router.POST("/api/sync/drain", controller.Drain)
	return router
}

func TestSyncController_Apply_BuildsTypedOperation(t *testing.T) {
	applier := &fakeApplier{queued: true}
	router := setupSyncRouter(&fakeSyncStore{}, applier, nil)

	body := `{"operation_type":"add_favorite_chapter","chapter_number":36}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/mutations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["queued"])

	require.NotNil(t, applier.lastOp)
	assert.Equal(t, "user-1", applier.lastOp.UserID)
	assert.Equal(t, entities.OpAddFavoriteChapter, applier.lastOp.OperationType)
	assert.JSONEq(t, `{"chapter_number":36}`, applier.lastOp.Payload)
	assert.False(t, applier.lastOp.ActivityTimestamp.IsZero())
}

func TestSyncController_Apply_UnknownTypeRejected(t *testing.T) {
	applier := &fakeApplier{}
	router := setupSyncRouter(&fakeSyncStore{}, applier, nil)

	body := `{"operation_type":"rename_account"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/mutations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, applier.lastOp)
}

func TestSyncController_Apply_RequiresUser(t *testing.T) {
	router := setupSyncRouter(&fakeSyncStore{}, &fakeApplier{}, nil)

	body := `{"operation_type":"track_activity","activity_kind":"reading"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/mutations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncController_Pending(t *testing.T) {
	store := &fakeSyncStore{
		count: 2,
		items: []entities.QueuedOperation{
			{ID: 1, OperationType: entities.OpAddFavoriteChapter},
			{ID: 2, OperationType: entities.OpTrackActivity},
		},
	}
	router := setupSyncRouter(store, &fakeApplier{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/sync/pending", nil)
	req.Header.Set("X-User-ID", "user-1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp["count"])
	assert.NotContains(t, resp, "items")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/sync/pending?include_items=true", nil)
	req.Header.Set("X-User-ID", "user-1")
	router.ServeHTTP(w, req)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["items"], 2)
}

func TestSyncController_Drain_SchedulesForUser(t *testing.T) {
	drained := make(chan string, 1)
	router := setupSyncRouter(&fakeSyncStore{}, &fakeApplier{}, func(ctx context.Context, userID string) {
		drained <- userID
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/sync/drain", nil)
	req.Header.Set("X-User-ID", "user-1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	select {
	case userID := <-drained:
		assert.Equal(t, "user-1", userID)
	case <-time.After(2 * time.Second):
		t.Fatal("drain trigger never fired")
	}
}
