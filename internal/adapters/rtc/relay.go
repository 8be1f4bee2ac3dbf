package rtc

import (
	"context"
	"errors"
	"io"
	"maps"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/rs/zerolog"
)

type rtpSource interface {
	ReadRTP() (*rtp.Packet, interceptor.Attributes, error)
}

// relay copies packets from one inbound track to its out tracks.
type relay struct {
	src rtpSource

	mu        sync.RWMutex
	outTracks map[string]*outTrack
}

func newRelay(src rtpSource) *relay {
	return &relay{
		src:       src,
		outTracks: make(map[string]*outTrack),
	}
}

func (r *relay) addOutTrack(dst string, ot *outTrack) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outTracks[dst] = ot
}

func (r *relay) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.outTracks)
}

// loop runs until ctx is done or the source fails. Closing the peer
// connection unblocks ReadRTP.
func (r *relay) loop(ctx context.Context, logger *zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("relay ctx done")
			r.markAllDelete()
			return
		default:
		}
		pkt, _, err := r.src.ReadRTP()
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Debug().Msg("relay source ended")
			} else {
				logger.Warn().Err(err).Msg("relay read RTP error, stopping")
			}
			r.markAllDelete()
			return
		}
		r.forward(pkt, logger)
	}
}

func (r *relay) forward(pkt *rtp.Packet, logger *zerolog.Logger) {
	r.mu.RLock()
	snapshot := maps.Clone(r.outTracks)
	r.mu.RUnlock()

	var dirty []string
	for dst, ot := range snapshot {
		if ot.getState() == trackStateDelete {
			dirty = append(dirty, dst)
			continue
		}
		if err := ot.sink.WriteRTP(pkt); err != nil {
			logger.Warn().Err(err).Str("dst", dst).Msg("relay write RTP error, dropping out track")
			ot.markDelete()
			dirty = append(dirty, dst)
		}
	}

	if len(dirty) > 0 {
		r.cleanupDeleted(dirty)
	}
}

func (r *relay) cleanupDeleted(dirty []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dst := range dirty {
		delete(r.outTracks, dst)
	}
}

func (r *relay) markAllDelete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ot := range r.outTracks {
		ot.markDelete()
	}
}
