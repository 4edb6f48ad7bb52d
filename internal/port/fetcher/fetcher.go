package fetcher

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("fetch: not found")
	ErrStatus   = errors.New("fetch: unexpected status")
)

// Fetcher retrieves the raw bytes behind an asset source. Each call performs
// exactly one round trip to the backing store.
type Fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
}
