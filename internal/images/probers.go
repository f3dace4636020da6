package images

import (
	"context"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// HTTPProber checks image existence with a HEAD request against a remote
// data host.
type HTTPProber struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPProber returns a prober that issues HEAD requests against baseURL.
func NewHTTPProber(baseURL string) *HTTPProber {
	return &HTTPProber{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *HTTPProber) Exists(ctx context.Context, path string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.BaseURL+path, nil)
	if err != nil {
		return false
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// FileProber checks image existence against the local data directory that
// backs the /data static route. A file counts as existing only when it
// decodes as a known image format, so truncated uploads do not surface as
// broken thumbnails.
type FileProber struct {
	Root string
}

// NewFileProber returns a prober rooted at the directory served under /data.
func NewFileProber(root string) *FileProber {
	return &FileProber{Root: root}
}

func (p *FileProber) Exists(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}

	rel := strings.TrimPrefix(path, "/data/")
	full := filepath.Join(p.Root, filepath.FromSlash(rel))

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return false
	}

	f, err := os.Open(full)
	if err != nil {
		return false
	}
	defer f.Close()

	_, _, err = image.DecodeConfig(f)
	return err == nil
}
