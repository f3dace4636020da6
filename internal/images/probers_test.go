package images

import (
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProber(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "Part1", "images", "p1")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	// Valid image bytes under a .jpg name; format sniffing is by content.
	f, err := os.Create(filepath.Join(dir, "0.jpg"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	require.NoError(t, f.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.jpg"), []byte("not an image"), 0o644))

	p := NewFileProber(root)
	ctx := context.Background()

	assert.True(t, p.Exists(ctx, "/data/Part1/images/p1/0.jpg"))
	assert.False(t, p.Exists(ctx, "/data/Part1/images/p1/1.jpg"), "undecodable file must not count")
	assert.False(t, p.Exists(ctx, "/data/Part1/images/p1/2.jpg"))
	assert.False(t, p.Exists(ctx, "/data/Part1/images/p1"))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.False(t, p.Exists(cancelled, "/data/Part1/images/p1/0.jpg"))
}

func TestHTTPProber(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead && r.URL.Path == "/data/Part1/images/p1/0.jpg" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewHTTPProber(srv.URL + "/")
	ctx := context.Background()

	assert.True(t, p.Exists(ctx, "/data/Part1/images/p1/0.jpg"))
	assert.False(t, p.Exists(ctx, "/data/Part1/images/p1/1.jpg"))
}
