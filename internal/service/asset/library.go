package asset

import (
	"context"
	"fmt"
	"sync"

	domainasset "github.com/alanyang/engn/internal/domain/asset"
	portfetcher "github.com/alanyang/engn/internal/port/fetcher"
)

// Library is the application's current asset set. Every Reload re-reads the
// manifest and runs a fresh Load; the held bundle is only replaced when the
// whole load succeeds.
type Library struct {
	fetch    portfetcher.Fetcher
	loader   *Loader
	pipeline *Pipeline
	manifest string

	mu     sync.RWMutex
	bundle domainasset.Bundle
}

func NewLibrary(fetch portfetcher.Fetcher, loader *Loader, pipeline *Pipeline, manifestSrc string) *Library {
	return &Library{
		fetch:    fetch,
		loader:   loader,
		pipeline: pipeline,
		manifest: manifestSrc,
		bundle:   domainasset.Bundle{},
	}
}

func (l *Library) Reload(ctx context.Context) (domainasset.Bundle, error) {
	raw, err := l.fetch.Fetch(ctx, l.manifest)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	m, err := ParseManifest(raw)
	if err != nil {
		return nil, err
	}
	bundle, err := l.pipeline.Load(ctx, l.loader.Ops(m)...)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}

	l.mu.Lock()
	l.bundle = bundle
	l.mu.Unlock()
	return bundle.Clone(), nil
}

// Bundle returns a copy of the current bundle; changing it does not affect the library.
func (l *Library) Bundle() domainasset.Bundle {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.bundle.Clone()
}
