package asset_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainasset "github.com/alanyang/engn/internal/domain/asset"
	"github.com/alanyang/engn/internal/mocks"
	portfetcher "github.com/alanyang/engn/internal/port/fetcher"
	assetsvc "github.com/alanyang/engn/internal/service/asset"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newLoader(t *testing.T) (*assetsvc.Loader, *mocks.MockFetcher, *mocks.MockContext) {
	t.Helper()
	ctrl := gomock.NewController(t)
	fetch := mocks.NewMockFetcher(ctrl)
	audio := mocks.NewMockContext(ctrl)
	return assetsvc.NewLoader(fetch, assetsvc.WithAudioContext(audio)), fetch, audio
}

func requireLoadError(t *testing.T, err error, kind domainasset.Kind, name string) *domainasset.LoadError {
	t.Helper()
	var le *domainasset.LoadError
	require.True(t, errors.As(err, &le), "want *LoadError, got %T", err)
	assert.Equal(t, kind, le.Kind)
	assert.Equal(t, name, le.Name)
	return le
}

// ── Image ─────────────────────────────────────────────────────────────────────

func TestImage_Success(t *testing.T) {
	l, fetch, _ := newLoader(t)
	fetch.EXPECT().Fetch(gomock.Any(), "img/hero.png").Return(pngBytes(t, 3, 2), nil).Times(1)

	a, err := l.Image("hero", "img/hero.png")(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domainasset.KindImage, a.Kind)
	assert.Equal(t, "hero", a.Name)
	img, ok := a.Value.(image.Image)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
}

func TestImage_FetchError(t *testing.T) {
	l, fetch, _ := newLoader(t)
	fetch.EXPECT().Fetch(gomock.Any(), "img/none.png").Return(nil, portfetcher.ErrNotFound)

	_, err := l.Image("none", "img/none.png")(context.Background())
	le := requireLoadError(t, err, domainasset.KindImage, "none")
	assert.Equal(t, "img/none.png", le.Src)
	assert.ErrorIs(t, err, portfetcher.ErrNotFound)
}

func TestImage_DecodeError(t *testing.T) {
	l, fetch, _ := newLoader(t)
	fetch.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]byte("not an image"), nil)

	_, err := l.Image("junk", "img/junk.png")(context.Background())
	requireLoadError(t, err, domainasset.KindImage, "junk")
}

// ── Sound ─────────────────────────────────────────────────────────────────────

func TestSound_FetchesThenDecodesOnce(t *testing.T) {
	l, fetch, audio := newLoader(t)
	ctrl := gomock.NewController(t)
	buf := mocks.NewMockBuffer(ctrl)
	raw := []byte("RIFF....WAVE")

	gomock.InOrder(
		fetch.EXPECT().Fetch(gomock.Any(), "sfx/jump.wav").Return(raw, nil).Times(1),
		audio.EXPECT().Decode(gomock.Any(), raw).Return(buf, nil).Times(1),
	)

	a, err := l.Sound("jump", "sfx/jump.wav")(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domainasset.KindSound, a.Kind)
	assert.Same(t, buf, a.Value)
}

func TestSound_NotOK(t *testing.T) {
	l, fetch, _ := newLoader(t)
	fetch.EXPECT().Fetch(gomock.Any(), "sfx/x.wav").Return(nil, portfetcher.ErrStatus)

	_, err := l.Sound("x", "sfx/x.wav")(context.Background())
	requireLoadError(t, err, domainasset.KindSound, "x")
	assert.Contains(t, err.Error(), "could not load sound: x")
}

func TestSound_DecodeError(t *testing.T) {
	l, fetch, audio := newLoader(t)
	fetch.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]byte("garbage"), nil)
	audio.EXPECT().Decode(gomock.Any(), gomock.Any()).Return(nil, errors.New("unsupported format"))

	_, err := l.Sound("x", "sfx/x.wav")(context.Background())
	requireLoadError(t, err, domainasset.KindSound, "x")
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestSound_WithoutAudioContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetch := mocks.NewMockFetcher(ctrl)
	l := assetsvc.NewLoader(fetch)

	_, err := l.Sound("x", "sfx/x.wav")(context.Background())
	requireLoadError(t, err, domainasset.KindSound, "x")
	assert.ErrorIs(t, err, assetsvc.ErrNoAudioContext)
}

// ── Structured data ───────────────────────────────────────────────────────────

func TestJSON_Success(t *testing.T) {
	l, fetch, _ := newLoader(t)
	fetch.EXPECT().Fetch(gomock.Any(), "levels/1.json").Return([]byte(`{"name":"one","tiles":[1,2]}`), nil)

	a, err := l.JSON("level1", "levels/1.json")(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domainasset.KindJSON, a.Kind)
	data, ok := a.Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "one", data["name"])
	assert.Len(t, data["tiles"], 2)
}

func TestJSON_Malformed(t *testing.T) {
	l, fetch, _ := newLoader(t)
	fetch.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]byte(`{"name":`), nil)

	_, err := l.JSON("level1", "levels/1.json")(context.Background())
	requireLoadError(t, err, domainasset.KindJSON, "level1")
}

func TestYAML_StoredAsStructuredData(t *testing.T) {
	l, fetch, _ := newLoader(t)
	fetch.EXPECT().Fetch(gomock.Any(), "levels/2.yaml").Return([]byte("name: two\nwidth: 12\n"), nil)

	a, err := l.YAML("level2", "levels/2.yaml")(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domainasset.KindJSON, a.Kind)
	data, ok := a.Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "two", data["name"])
}

// ── Loader + Pipeline ─────────────────────────────────────────────────────────

func TestLoaderOps_ThroughPipeline(t *testing.T) {
	l, fetch, _ := newLoader(t)
	fetch.EXPECT().Fetch(gomock.Any(), "img/hero.png").Return(pngBytes(t, 1, 1), nil)
	fetch.EXPECT().Fetch(gomock.Any(), "levels/1.json").Return([]byte(`{"id":1}`), nil)

	b, err := assetsvc.NewPipeline().Load(context.Background(),
		l.Image("hero", "img/hero.png"),
		l.JSON("level1", "levels/1.json"),
	)
	require.NoError(t, err)

	assert.Equal(t, map[domainasset.Kind][]string{
		domainasset.KindImage: {"hero"},
		domainasset.KindJSON:  {"level1"},
	}, b.Names())
}
