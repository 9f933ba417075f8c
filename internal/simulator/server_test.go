package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pderrors "github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/feed"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...ServerOption) *httptest.Server {
	t.Helper()
	opts = append([]ServerOption{WithClock(func() time.Time { return now })}, opts...)
	srv := httptest.NewServer(NewServer(NewGenerator(11), opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_Index(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+"/", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body feed.IndexResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "1.0.0", body.Version)
	assert.Len(t, body.AvailablePlants, 6)
	assert.NotEmpty(t, body.Endpoints)
}

func TestServer_StripsThroughFeedClient(t *testing.T) {
	srv := newTestServer(t)
	client, err := feed.NewClient(srv.URL)
	require.NoError(t, err)

	batch, err := client.Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, batch.Records, 72)
	assert.Empty(t, batch.Rejected)
	assert.Equal(t, 6, batch.Meta.PlantCount)
	assert.Equal(t, 12, batch.Meta.PointsPerPlant)
	assert.Equal(t, "2025/03/04 14:37:42", batch.Meta.Timestamp)
}

func TestServer_DispatchThroughFeedClient(t *testing.T) {
	srv := newTestServer(t)
	client, err := feed.NewClient(srv.URL)
	require.NoError(t, err)

	resp, err := client.Dispatch(context.Background(), "powerplant3")
	require.NoError(t, err)
	assert.Equal(t, 5, resp.RecordCount)

	_, err = client.Dispatch(context.Background(), "powerplant9")
	require.Error(t, err)
	assert.True(t, pderrors.IsCode(err, pderrors.ErrPayload))
}

func TestServer_UnknownPlantIs200(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+"/api/strip/nope/details", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body feed.DispatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Plant nope not found", body.Error)
}

func TestServer_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+"/api/nothing", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestServer_RequestID(t *testing.T) {
	srv := newTestServer(t)

	t.Run("echoes caller id", func(t *testing.T) {
		resp := get(t, srv.URL+feed.StripsPath, http.Header{feed.RequestIDHeader: {"abc-123"}})
		assert.Equal(t, "abc-123", resp.Header.Get(feed.RequestIDHeader))
	})

	t.Run("assigns one when missing", func(t *testing.T) {
		resp := get(t, srv.URL+feed.StripsPath, nil)
		assert.Len(t, resp.Header.Get(feed.RequestIDHeader), 36)
	})
}

func TestServer_CORS(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+feed.StripsPath, http.Header{"Origin": {"http://localhost:3000"}})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_AccessLog(t *testing.T) {
	var buf bytes.Buffer
	srv := httptest.NewServer(NewServer(NewGenerator(1), WithAccessLog(&buf)).Handler())
	defer srv.Close()

	resp := get(t, srv.URL+feed.StripsPath, http.Header{"User-Agent": {"plantdash-test"}})
	resp.Body.Close()
	srv.Close()

	assert.Contains(t, buf.String(), "GET /api/strips")
	assert.Contains(t, buf.String(), "plantdash-test")
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	log := logger.NewBufferLogger()
	s := NewServer(NewGenerator(1), WithLogger(log))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.True(t, log.Contains("info", "listening on"))
	assert.True(t, log.Contains("info", "stopped"))
}

func TestServer_ListenAndServeBadAddr(t *testing.T) {
	err := NewServer(NewGenerator(1)).ListenAndServe(context.Background(), "not-an-addr")

	require.Error(t, err)
	assert.True(t, pderrors.IsCode(err, pderrors.ErrConfig))
}
