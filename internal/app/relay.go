package app

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/mirror/internal/core"
	"github.com/dkeye/mirror/internal/domain"
)

// candidateRelay forwards locally gathered ICE candidates to the outbox.
// Until opened it holds them back so the answer reaches the peer first.
// Sends happen under mu, which keeps discovery order on the wire.
type candidateRelay struct {
	sid    domain.SessionID
	outbox core.Outbox
	logger zerolog.Logger

	mu     sync.Mutex
	opened bool
	closed bool
	held   []domain.IceCandidate
}

func newCandidateRelay(sid domain.SessionID, outbox core.Outbox) *candidateRelay {
	return &candidateRelay{
		sid:    sid,
		outbox: outbox,
		logger: log.With().Str("module", "app.relay").Str("sid", string(sid)).Logger(),
	}
}

func (r *candidateRelay) push(c domain.IceCandidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.closed:
		r.logger.Debug().Str("candidate", c.Candidate).Msg("drop candidate after release")
	case !r.opened:
		r.held = append(r.held, c)
	default:
		r.send(c)
	}
}

func (r *candidateRelay) open() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.opened || r.closed {
		return
	}
	r.opened = true
	for _, c := range r.held {
		r.send(c)
	}
	r.held = nil
}

func (r *candidateRelay) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.held = nil
}

func (r *candidateRelay) send(c domain.IceCandidate) {
	f, err := encode(iceCandidateMessage{ID: idIceCandidate, Candidate: c})
	if err != nil {
		r.logger.Error().Err(err).Msg("encode candidate")
		return
	}
	r.logger.Debug().RawJSON("payload", f).Msg("sending message")
	if err := r.outbox.Send(r.sid, f); err != nil {
		r.logger.Error().Err(err).Msg("send candidate")
	}
}
