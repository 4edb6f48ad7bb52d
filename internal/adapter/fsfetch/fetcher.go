package fsfetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/spf13/afero"

	portfetcher "github.com/alanyang/engn/internal/port/fetcher"
)

var _ portfetcher.Fetcher = (*Fetcher)(nil)

// Fetcher reads sources from a directory of an afero filesystem. Sources are
// slash-separated and may not escape the root.
type Fetcher struct {
	fs afero.Fs
}

func New(fsys afero.Fs, root string) *Fetcher {
	return &Fetcher{fs: afero.NewBasePathFs(fsys, root)}
}

func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := path.Clean("/" + strings.TrimPrefix(src, "./"))
	data, err := afero.ReadFile(f.fs, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", src, portfetcher.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	return data, nil
}
