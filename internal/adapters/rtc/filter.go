package rtc

import (
	"context"
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"

	"github.com/dkeye/mirror/internal/core"
	"github.com/dkeye/mirror/internal/domain"
)

// overlayFilter passes media from the endpoint connected into it to the
// endpoint it is connected to.
type overlayFilter struct {
	id       string
	pipeline *pipeline
	overlay  domain.Overlay

	mu  sync.Mutex
	dst *endpoint
}

func (f *overlayFilter) ID() string { return f.id }

func (f *overlayFilter) Connect(_ context.Context, sink core.MediaElement) error {
	ep, ok := sink.(*endpoint)
	if !ok || ep.pipeline != f.pipeline {
		return fmt.Errorf("rtc: filter %s cannot connect to %T", f.id, sink)
	}
	f.mu.Lock()
	f.dst = ep
	f.mu.Unlock()

	ep.mu.Lock()
	ep.feed = f
	ep.mu.Unlock()
	return nil
}

func (f *overlayFilter) mirror(track *webrtc.TrackRemote, logger zerolog.Logger) {
	f.mu.Lock()
	dst := f.dst
	f.mu.Unlock()
	if dst == nil {
		logger.Debug().Str("filter", f.id).Msg("filter has no sink, dropping track")
		return
	}
	out := dst.output(track.Kind())
	if out == nil {
		logger.Warn().Str("filter", f.id).Str("kind", track.Kind().String()).Msg("no output track for kind")
		return
	}

	r := newRelay(track)
	r.addOutTrack(dst.id, newOutTrack(out))
	l := logger.With().Str("filter", f.id).Str("kind", track.Kind().String()).Logger()
	if !f.pipeline.spawn(func() { r.loop(f.pipeline.ctx, &l) }) {
		return
	}
	l.Info().Msg("mirror relay started")
}
