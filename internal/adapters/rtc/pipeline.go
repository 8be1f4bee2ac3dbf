package rtc

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/dkeye/mirror/internal/core"
	"github.com/dkeye/mirror/internal/domain"
)

type pipeline struct {
	id     string
	engine *Engine
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	endpoints []*endpoint
	released  bool
	workers   conc.WaitGroup
}

func newPipeline(e *Engine) *pipeline {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	p := &pipeline{
		id:     id,
		engine: e,
		logger: log.With().Str("module", "rtc").Str("pipeline", id).Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
	p.logger.Info().Msg("pipeline created")
	return p
}

func (p *pipeline) ID() string { return p.id }

func (p *pipeline) CreateWebRtcEndpoint(context.Context) (core.WebRtcEndpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return nil, errReleased
	}
	ep, err := newEndpoint(p)
	if err != nil {
		return nil, err
	}
	p.endpoints = append(p.endpoints, ep)
	return ep, nil
}

func (p *pipeline) CreateFaceOverlayFilter(_ context.Context, ov domain.Overlay) (core.MediaElement, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return nil, errReleased
	}
	f := &overlayFilter{id: uuid.NewString(), pipeline: p, overlay: ov}
	p.logger.Info().
		Str("filter", f.id).
		Str("uri", ov.URI).
		Float32("offset_x", ov.OffsetX).
		Float32("offset_y", ov.OffsetY).
		Float32("width", ov.Width).
		Float32("height", ov.Height).
		Msg("face overlay filter created")
	return f, nil
}

// spawn runs fn as a pipeline worker unless the pipeline is already released.
func (p *pipeline) spawn(fn func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return false
	}
	p.workers.Go(fn)
	return true
}

// Release closes every peer connection and waits for relay workers to exit.
func (p *pipeline) Release(ctx context.Context) error {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return nil
	}
	p.released = true
	endpoints := p.endpoints
	p.endpoints = nil
	p.mu.Unlock()

	p.cancel()
	var errs []error
	for _, ep := range endpoints {
		if err := ep.close(); err != nil {
			errs = append(errs, err)
		}
	}

	done := make(chan struct{})
	go func() {
		p.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		errs = append(errs, ctx.Err())
	}

	p.logger.Info().Msg("pipeline released")
	return errors.Join(errs...)
}
