package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/mirror/internal/core"
	"github.com/dkeye/mirror/internal/domain"
)

const releaseTimeout = 5 * time.Second

// Session owns the media server resources of one signaling connection:
// a client, a pipeline and the WebRTC endpoint looped through an overlay filter.
type Session struct {
	id      domain.SessionID
	engine  core.MediaEngine
	overlay domain.Overlay
	relay   *candidateRelay
	logger  zerolog.Logger

	mu       sync.Mutex
	state    domain.State
	client   core.MediaClient
	pipeline core.MediaPipeline
	endpoint core.WebRtcEndpoint
}

func NewSession(id domain.SessionID, engine core.MediaEngine, outbox core.Outbox, overlay domain.Overlay) *Session {
	return &Session{
		id:      id,
		engine:  engine,
		overlay: overlay,
		relay:   newCandidateRelay(id, outbox),
		logger:  log.With().Str("module", "app.session").Str("sid", string(id)).Logger(),
		state:   domain.StateIdle,
	}
}

func (s *Session) ID() domain.SessionID { return s.id }

func (s *Session) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start builds the mirror pipeline, negotiates offer and returns the SDP answer.
// On failure the partially built resources stay owned by the session until Release.
func (s *Session) Start(ctx context.Context, offer string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.StateIdle:
	case domain.StateReleased:
		return "", core.ErrSessionReleased
	default:
		return "", fmt.Errorf("session already %s", s.state)
	}
	s.state = domain.StateNegotiating

	client, err := s.engine.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create media client: %w", err)
	}
	s.client = client
	s.logger.Info().Msg("created media client")

	pipeline, err := client.CreatePipeline(ctx)
	if err != nil {
		return "", fmt.Errorf("create pipeline: %w", err)
	}
	s.pipeline = pipeline
	s.logger.Info().Str("pipeline", pipeline.ID()).Msg("created media pipeline")

	endpoint, err := pipeline.CreateWebRtcEndpoint(ctx)
	if err != nil {
		return "", fmt.Errorf("create webrtc endpoint: %w", err)
	}
	s.endpoint = endpoint

	filter, err := pipeline.CreateFaceOverlayFilter(ctx, s.overlay)
	if err != nil {
		return "", fmt.Errorf("create overlay filter: %w", err)
	}
	if err := endpoint.Connect(ctx, filter); err != nil {
		return "", fmt.Errorf("connect endpoint to filter: %w", err)
	}
	if err := filter.Connect(ctx, endpoint); err != nil {
		return "", fmt.Errorf("connect filter to endpoint: %w", err)
	}

	if err := endpoint.OnIceCandidate(ctx, s.relay.push); err != nil {
		return "", fmt.Errorf("subscribe ice candidates: %w", err)
	}
	answer, err := endpoint.ProcessOffer(ctx, offer)
	if err != nil {
		return "", fmt.Errorf("process offer: %w", err)
	}
	if err := endpoint.GatherCandidates(ctx); err != nil {
		return "", fmt.Errorf("gather candidates: %w", err)
	}

	s.state = domain.StateActive
	s.logger.Info().Str("endpoint", endpoint.ID()).Msg("session active")
	return answer, nil
}

// DeliverCandidates lets candidates gathered so far, and every later one,
// through to the outbox. Call it once the answer has been queued.
func (s *Session) DeliverCandidates() {
	s.relay.open()
}

// AddCandidate applies a remote ICE candidate. It returns ErrNotNegotiated
// until Start has completed and ErrSessionReleased afterwards.
func (s *Session) AddCandidate(ctx context.Context, c domain.IceCandidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.StateActive:
	case domain.StateReleased:
		return core.ErrSessionReleased
	default:
		return core.ErrNotNegotiated
	}
	if err := s.endpoint.AddIceCandidate(ctx, c); err != nil {
		return fmt.Errorf("add ice candidate: %w", err)
	}
	return nil
}

// Release frees the pipeline, then the client. It is safe on a session that
// never started or failed halfway, and a no-op once released.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.StateReleased {
		return
	}
	s.state = domain.StateReleased
	s.relay.close()

	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	if s.pipeline != nil {
		s.logger.Info().Str("pipeline", s.pipeline.ID()).Msg("releasing media pipeline")
		if err := s.pipeline.Release(ctx); err != nil {
			s.logger.Error().Err(err).Msg("release pipeline")
		}
	}
	if s.client != nil {
		s.logger.Info().Msg("destroying media client")
		if err := s.client.Destroy(); err != nil {
			s.logger.Error().Err(err).Msg("destroy media client")
		}
	}
	s.pipeline, s.endpoint, s.client = nil, nil, nil
}
