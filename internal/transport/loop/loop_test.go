package loop_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/engn/internal/service/scheduler"
	"github.com/alanyang/engn/internal/testutil"
	transportloop "github.com/alanyang/engn/internal/transport/loop"
)

func init() { gin.SetMode(gin.TestMode) }

type status struct {
	ID      string `json:"id"`
	Running bool   `json:"running"`
	Frames  uint64 `json:"frames"`
}

func newRouter(t *testing.T) (*gin.Engine, *scheduler.Scheduler, *testutil.ManualHost) {
	t.Helper()
	host := testutil.NewManualHost()
	s := scheduler.New(host)
	t.Cleanup(s.Stop)

	r := gin.New()
	transportloop.Register(r.Group("/loop"), s)
	return r, s, host
}

func do(t *testing.T, r *gin.Engine, method, path string) status {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), method, path, nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got
}

func TestStatus(t *testing.T) {
	r, s, _ := newRouter(t)

	got := do(t, r, http.MethodGet, "/loop")
	assert.Equal(t, s.ID().String(), got.ID)
	assert.False(t, got.Running)
}

func TestStartStop(t *testing.T) {
	r, s, host := newRouter(t)

	got := do(t, r, http.MethodPost, "/loop/start")
	assert.True(t, got.Running)
	assert.True(t, s.Running())
	assert.Equal(t, 1, host.Pending())

	host.Fire()
	assert.Equal(t, uint64(1), do(t, r, http.MethodGet, "/loop").Frames)

	got = do(t, r, http.MethodPost, "/loop/stop")
	assert.False(t, got.Running)
	assert.Zero(t, host.Pending())
}

func TestStart_Twice(t *testing.T) {
	r, _, host := newRouter(t)

	do(t, r, http.MethodPost, "/loop/start")
	do(t, r, http.MethodPost, "/loop/start")

	assert.Equal(t, 1, host.Requests())
}
