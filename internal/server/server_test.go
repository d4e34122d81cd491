package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibs-source/champions-bot/internal/config"
	"github.com/ibs-source/champions-bot/internal/log"
	"github.com/ibs-source/champions-bot/internal/poller"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeLoop struct {
	enableErr error
	enabled   int
	stopped   int
	status    poller.Status
}

func (l *fakeLoop) Enable() error {
	l.enabled++
	if l.enableErr == nil {
		l.status.State = poller.StateRunning
	}
	return l.enableErr
}

func (l *fakeLoop) RequestStop() {
	l.stopped++
	l.status.State = poller.StateDraining
}

func (l *fakeLoop) Status() poller.Status {
	return l.status
}

type fakeCache struct {
	purged int
	err    error
}

func (c *fakeCache) Purge(context.Context) (int, error) {
	return c.purged, c.err
}

func serve(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func newTestServer(loop Controller, cache CachePurger) *Server {
	return New(&config.ServerConfig{Address: "127.0.0.1:0"}, loop, cache, log.Discard())
}

func TestEnable(t *testing.T) {
	loop := &fakeLoop{}
	s := newTestServer(loop, nil)

	rec := serve(t, s, http.MethodGet, "/enable")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, 1, loop.enabled)
}

func TestEnable_ConfigurationMissing(t *testing.T) {
	loop := &fakeLoop{enableErr: fmt.Errorf("%w: telegram token", poller.ErrConfigurationMissing)}
	s := newTestServer(loop, nil)

	rec := serve(t, s, http.MethodGet, "/enable")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", rec.Body.String())
	assert.Equal(t, poller.StateStopped, loop.status.State)
}

func TestStatus(t *testing.T) {
	loop := &fakeLoop{status: poller.Status{State: poller.StateRunning, Cursor: 42}}
	s := newTestServer(loop, nil)

	rec := serve(t, s, http.MethodGet, "/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"running","cursor":42}`, rec.Body.String())
}

func TestStop(t *testing.T) {
	loop := &fakeLoop{status: poller.Status{State: poller.StateRunning, Cursor: 7}}
	s := newTestServer(loop, nil)

	rec := serve(t, s, http.MethodPost, "/stop")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"state":"draining","cursor":7}`, rec.Body.String())
	assert.Equal(t, 1, loop.stopped)

	rec = serve(t, s, http.MethodGet, "/stop")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPurgeCache(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		rec := serve(t, newTestServer(&fakeLoop{}, nil), http.MethodDelete, "/cache")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Purged", func(t *testing.T) {
		rec := serve(t, newTestServer(&fakeLoop{}, &fakeCache{purged: 3}), http.MethodDelete, "/cache")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"purged":3}`, rec.Body.String())
	})

	t.Run("Failure", func(t *testing.T) {
		cache := &fakeCache{purged: 1, err: errors.New("scan failed")}
		rec := serve(t, newTestServer(&fakeLoop{}, cache), http.MethodDelete, "/cache")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.JSONEq(t, `{"error":"scan failed","purged":1}`, rec.Body.String())
	})
}

func TestStartAndShutdown(t *testing.T) {
	s := newTestServer(&fakeLoop{}, nil)

	started := make(chan error, 1)
	go func() { started <- s.Start() }()

	// Shutdown before or after ListenAndServe begins both end Start without error
	require.NoError(t, s.Shutdown(context.Background()))
	assert.NoError(t, <-started)
}
