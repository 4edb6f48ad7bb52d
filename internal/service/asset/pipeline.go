package asset

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	domainasset "github.com/alanyang/engn/internal/domain/asset"
)

var ErrNilOp = errors.New("nil load operation")

// Recorder observes finished load batches.
type Recorder interface {
	LoadFinished(ops int, elapsed time.Duration, err error)
}

// Pipeline runs load operations concurrently and folds their results into a
// Bundle. It keeps nothing between calls.
type Pipeline struct {
	recorder Recorder
}

type PipelineOption func(*Pipeline)

func WithRecorder(r Recorder) PipelineOption {
	return func(p *Pipeline) { p.recorder = r }
}

func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load starts every op at once and waits for all of them. The first failure
// fails the whole call and no bundle is returned; remaining ops see their
// context cancelled. On success the assets are folded in the order the ops
// were given, so for duplicate names the later op wins.
func (p *Pipeline) Load(ctx context.Context, ops ...Op) (domainasset.Bundle, error) {
	batch := uuid.New()
	start := time.Now()

	for _, op := range ops {
		if op == nil {
			p.finish(batch, len(ops), start, ErrNilOp)
			return nil, ErrNilOp
		}
	}

	results := make([]domainasset.Asset, len(ops))
	g, gctx := errgroup.WithContext(ctx)
	for i, op := range ops {
		g.Go(func() error {
			a, err := op(gctx)
			if err != nil {
				return err
			}
			results[i] = a
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.finish(batch, len(ops), start, err)
		return nil, err
	}

	bundle := domainasset.Fold(results)
	p.finish(batch, len(ops), start, nil)
	return bundle, nil
}

func (p *Pipeline) finish(batch uuid.UUID, n int, start time.Time, err error) {
	elapsed := time.Since(start)
	if err != nil {
		slog.Error("asset load failed", "batch_id", batch, "ops", n, "duration", elapsed, "error", err)
	} else {
		slog.Info("assets loaded", "batch_id", batch, "ops", n, "duration", elapsed)
	}
	if p.recorder != nil {
		p.recorder.LoadFinished(n, elapsed, err)
	}
}
