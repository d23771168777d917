package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spogdesk/concierge/internal/model"
	"github.com/spogdesk/concierge/pkg/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := New(Config{
		BaseURL: srv.URL,
		Token:   "test-token",
		Timeout: 5 * time.Second,
	}, testLogger())
	return c, srv
}

func TestFetchPageSendsPageParams(t *testing.T) {
	var gotPath, gotPage, gotLimit, gotSearch, gotToken string

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPage = r.URL.Query().Get("page")
		gotLimit = r.URL.Query().Get("limit")
		gotSearch = r.URL.Query().Get("search")
		gotToken = r.Header.Get("X-Token")
		w.Write([]byte(`{"data":[{"issue_id":"TASK-1"}]}`))
	})

	got, err := c.FetchPage(context.Background(), model.ResourceTicket, 20, 40, "printer")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "/api/tickets", gotPath)
	assert.Equal(t, "3", gotPage) // offset 40, limit 20
	assert.Equal(t, "20", gotLimit)
	assert.Equal(t, "printer", gotSearch)
	assert.Equal(t, "test-token", gotToken)
}

func TestFetchPageResourcePaths(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	})

	_, err := c.FetchPage(context.Background(), model.ResourceUser, 10, 0, "")
	require.NoError(t, err)
	assert.Equal(t, "/api/users", gotPath)

	_, err = c.FetchPage(context.Background(), model.ResourceItem, 10, 0, "")
	require.NoError(t, err)
	assert.Equal(t, "/api/items", gotPath)
}

func TestFetchPageBareArray(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"widget"},{"name":"gadget"}]`))
	})

	got, err := c.FetchPage(context.Background(), model.ResourceItem, 10, 0, "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "widget", got[0]["name"])
}

func TestFetchPageEnvelopeKeys(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"users":[{"username":"amit"}]}`))
	})

	got, err := c.FetchPage(context.Background(), model.ResourceUser, 10, 0, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "amit", got[0]["username"])
}

func TestFetchPageErrorStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.FetchPage(context.Background(), model.ResourceTicket, 20, 0, "")
	assert.Error(t, err)
}

func TestFetchByID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/abc123", r.URL.Path)
		w.Write([]byte(`{"_id":"abc123","username":"amit"}`))
	})

	got, err := c.FetchByID(context.Background(), model.ResourceUser, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "amit", got["username"])
}

func TestFetchByIDNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := c.FetchByID(context.Background(), model.ResourceUser, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecodeRecordsRejectsScalars(t *testing.T) {
	_, err := decodeRecords([]byte(`"just a string"`))
	assert.Error(t, err)

	_, err = decodeRecords([]byte(`{"message":"no array here"}`))
	assert.Error(t, err)
}
