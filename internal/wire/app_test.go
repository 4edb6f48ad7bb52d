package wire_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/engn/internal/config"
	domainasset "github.com/alanyang/engn/internal/domain/asset"
	"github.com/alanyang/engn/internal/wire"
)

func testConfig(t *testing.T, manifest string) config.Config {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "assets.yaml"), []byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "level.json"), []byte(`{"w":4,"h":3}`), 0o644))
	return config.Config{
		Port:          "0",
		FPS:           60,
		AssetManifest: "assets.yaml",
		AssetRoot:     root,
	}
}

func TestBuild_FromDisk(t *testing.T) {
	app, err := wire.Build(context.Background(), testConfig(t, "data:\n  level: level.json\n"))
	require.NoError(t, err)
	t.Cleanup(app.Close)

	assert.Nil(t, app.Pool)
	require.NotNil(t, app.MCPServer)
	assert.False(t, app.Scheduler.Running())

	level, ok := app.Library.Bundle().Get(domainasset.KindJSON, "level")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"w": float64(4), "h": float64(3)}, level)

	w := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "engn_asset_loads_total")
}

func TestBuild_Autostart(t *testing.T) {
	cfg := testConfig(t, "data:\n  level: level.json\n")
	cfg.Autostart = true

	app, err := wire.Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	assert.True(t, app.Scheduler.Running())
	app.Close()
	assert.False(t, app.Scheduler.Running())
}

func TestBuild_MissingAssetFails(t *testing.T) {
	_, err := wire.Build(context.Background(), testConfig(t, "data:\n  level: missing.json\n"))
	assert.Error(t, err)
}
