package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/repository"
)

// recordedRequest captures what the fake backend received.
type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Auth   string
	Body   []byte
}

// recorder is safe to read from the test goroutine while the server runs.
type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.requests...)
}

func newBackend(t *testing.T, status int, response string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		q := map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		rec.mu.Lock()
		rec.requests = append(rec.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  q,
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})
		rec.mu.Unlock()
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	return srv, rec
}

func TestClient_Create(t *testing.T) {
	srv, requests := newBackend(t, http.StatusOK, "")
	client, err := NewClient(srv.URL+"/api/", "", time.Second)
	require.NoError(t, err)

	event := entity.NewEvent("U1", "alice", "vab", time.Date(2019, 12, 28, 0, 0, 0, 0, time.UTC), 4)
	require.NoError(t, client.Create(context.Background(), event))

	require.Len(t, requests.all(), 1)
	req := requests.all()[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/events", req.Path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &sent))
	assert.Equal(t, "U1", sent["user_id"])
	assert.Equal(t, "alice", sent["user_name"])
	assert.Equal(t, "vab", sent["reason"])
	assert.Equal(t, "2019-12-28", sent["event_date"])
	assert.Equal(t, 4.0, sent["hours"])
	assert.Equal(t, false, sent["lock"])
}

func TestClient_DeleteAndLock(t *testing.T) {
	srv, requests := newBackend(t, http.StatusNoContent, "")
	client, err := NewClient(srv.URL, "", time.Second)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.Delete(ctx, "U1", "2019-12-28"))
	require.NoError(t, client.Lock(ctx, "U1", "2019-12-29"))

	require.Len(t, requests.all(), 2)

	del := requests.all()[0]
	assert.Equal(t, http.MethodDelete, del.Method)
	assert.Equal(t, "/events", del.Path)
	assert.Equal(t, map[string]string{"user_id": "U1", "date": "2019-12-28"}, del.Query)

	lock := requests.all()[1]
	assert.Equal(t, http.MethodPatch, lock.Method)
	assert.Equal(t, "/events/lock", lock.Path)
	assert.Equal(t, map[string]string{"user_id": "U1", "date": "2019-12-29"}, lock.Query)
}

func TestClient_List(t *testing.T) {
	body := `[{"user_id":"U1","reason":"vab","event_date":"2019-12-28","hours":8,"lock":true}]`
	srv, requests := newBackend(t, http.StatusOK, body)
	client, err := NewClient(srv.URL, "", time.Second)
	require.NoError(t, err)

	listing, err := client.List(context.Background(), "U1", "2019-12-28:2019-12-30")
	require.NoError(t, err)

	require.Len(t, listing.Events, 1)
	assert.True(t, listing.HasLocked())
	assert.Equal(t, body, string(listing.Raw))
	assert.Equal(t, "2019-12-28:2019-12-30", requests.all()[0].Query["date"])
	assert.Equal(t, http.MethodGet, requests.all()[0].Method)
}

func TestClient_ListEmpty(t *testing.T) {
	for _, body := range []string{"", "[]", " [] \n"} {
		srv, _ := newBackend(t, http.StatusOK, body)
		client, err := NewClient(srv.URL, "", time.Second)
		require.NoError(t, err)

		listing, err := client.List(context.Background(), "U1", "all")
		require.NoError(t, err, "body %q", body)
		assert.True(t, listing.IsEmpty(), "body %q", body)
	}
}

func TestClient_ListInvalidBody(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, "<html>")
	client, err := NewClient(srv.URL, "", time.Second)
	require.NoError(t, err)

	_, err = client.List(context.Background(), "U1", "all")
	assert.ErrorIs(t, err, repository.ErrInvalidResponse)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	srv, _ := newBackend(t, http.StatusConflict, `{"error":"locked"}`)
	client, err := NewClient(srv.URL, "", time.Second)
	require.NoError(t, err)

	err = client.Delete(context.Background(), "U1", "2019-12-28")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrUnexpectedStatus)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, OpDelete, statusErr.Operation)
	assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
}

func TestClient_Unavailable(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, "")
	srv.Close()

	client, err := NewClient(srv.URL, "", time.Second)
	require.NoError(t, err)

	err = client.Lock(context.Background(), "U1", "2019-12-28")
	assert.ErrorIs(t, err, repository.ErrBackendUnavailable)
}

func TestClient_BearerToken(t *testing.T) {
	srv, requests := newBackend(t, http.StatusOK, "[]")
	client, err := NewClient(srv.URL, "backend-token", time.Second)
	require.NoError(t, err)

	_, err = client.List(context.Background(), "U1", "all")
	require.NoError(t, err)
	assert.Equal(t, "Bearer backend-token", requests.all()[0].Auth)
}

func TestClient_Ping(t *testing.T) {
	srv, _ := newBackend(t, http.StatusNotFound, "")
	client, err := NewClient(srv.URL, "", time.Second)
	require.NoError(t, err)
	assert.NoError(t, client.Ping(context.Background()))

	down, _ := newBackend(t, http.StatusServiceUnavailable, "")
	client, err = NewClient(down.URL, "", time.Second)
	require.NoError(t, err)
	assert.Error(t, client.Ping(context.Background()))
}

func TestClient_ImplementsRepository(t *testing.T) {
	var _ repository.EventRepository = (*Client)(nil)
}
