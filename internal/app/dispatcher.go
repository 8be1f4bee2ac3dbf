package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/mirror/internal/core"
	"github.com/dkeye/mirror/internal/domain"
)

const defaultStartTimeout = 15 * time.Second

// Dispatcher routes inbound signaling frames to sessions and writes the
// replies through the outbox. It is safe for concurrent use across
// connections; frames of one connection are expected one at a time.
type Dispatcher struct {
	Registry     *Registry
	Engine       core.MediaEngine
	Outbox       core.Outbox
	Overlay      domain.Overlay
	StartTimeout time.Duration
}

func NewDispatcher(reg *Registry, engine core.MediaEngine, outbox core.Outbox, overlay domain.Overlay) *Dispatcher {
	return &Dispatcher{
		Registry:     reg,
		Engine:       engine,
		Outbox:       outbox,
		Overlay:      overlay,
		StartTimeout: defaultStartTimeout,
	}
}

// OnMessage handles one inbound text frame of connection sid.
func (d *Dispatcher) OnMessage(ctx context.Context, sid domain.SessionID, raw []byte) {
	log.Info().Str("module", "app.dispatcher").Str("sid", string(sid)).RawJSON("payload", jsonOrString(raw)).Msg("incoming message")

	msg, err := decode(raw)
	if err != nil {
		d.fail(sid, err)
		return
	}

	switch m := msg.(type) {
	case startMessage:
		d.start(ctx, sid, m.SdpOffer)
	case stopMessage:
		d.release(sid)
	case candidateMessage:
		d.addCandidate(ctx, sid, m.Candidate)
	}
}

// OnConnectionClosed releases whatever session sid still holds.
// Safe to call after an explicit stop.
func (d *Dispatcher) OnConnectionClosed(sid domain.SessionID) {
	log.Info().Str("module", "app.dispatcher").Str("sid", string(sid)).Msg("connection closed")
	d.release(sid)
}

func (d *Dispatcher) start(ctx context.Context, sid domain.SessionID, offer string) {
	// A second start replaces the running session; its resources go first.
	if prev, ok := d.Registry.Remove(sid); ok {
		log.Warn().Str("module", "app.dispatcher").Str("sid", string(sid)).Msg("start on live session, releasing previous")
		prev.Release()
	}

	sess := NewSession(sid, d.Engine, d.Outbox, d.Overlay)
	if !d.Registry.Put(sid, sess) {
		sess.Release()
		d.fail(sid, errors.New("concurrent start on the same connection"))
		return
	}

	timeout := d.StartTimeout
	if timeout <= 0 {
		timeout = defaultStartTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	answer, err := sess.Start(ctx, offer)
	if err != nil {
		d.fail(sid, err)
		return
	}
	d.send(sid, startResponseMessage{ID: idStartResponse, SdpAnswer: answer})
	sess.DeliverCandidates()
}

func (d *Dispatcher) addCandidate(ctx context.Context, sid domain.SessionID, c domain.IceCandidate) {
	sess, ok := d.Registry.Get(sid)
	if !ok {
		log.Debug().Str("module", "app.dispatcher").Str("sid", string(sid)).Msg("candidate for unknown session ignored")
		return
	}
	err := sess.AddCandidate(ctx, c)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrNotNegotiated), errors.Is(err, core.ErrSessionReleased):
		log.Debug().Err(err).Str("module", "app.dispatcher").Str("sid", string(sid)).Msg("late candidate ignored")
	default:
		d.fail(sid, err)
	}
}

// fail releases the session of sid and tells the peer why.
func (d *Dispatcher) fail(sid domain.SessionID, err error) {
	d.release(sid)

	var pe *ProtocolError
	switch {
	case errors.Is(err, core.ErrResourceExhausted):
		log.Warn().Err(err).Str("module", "app.dispatcher").Str("sid", string(sid)).Msg("not enough resources")
		d.send(sid, notEnoughResourcesMessage{ID: idNotEnoughResources})
	case errors.As(err, &pe):
		log.Warn().Err(err).Str("module", "app.dispatcher").Str("sid", string(sid)).Msg("protocol error")
		d.send(sid, errorMessage{ID: idError, Message: pe.Message})
	default:
		log.Error().Err(err).Str("module", "app.dispatcher").Str("sid", string(sid)).Msg("session failure")
		d.send(sid, errorMessage{ID: idError, Message: err.Error()})
	}
}

func (d *Dispatcher) release(sid domain.SessionID) {
	if sess, ok := d.Registry.Remove(sid); ok {
		sess.Release()
	}
}

func (d *Dispatcher) send(sid domain.SessionID, v any) {
	f, err := encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.dispatcher").Msg("encode message")
		return
	}
	log.Debug().Str("module", "app.dispatcher").Str("sid", string(sid)).RawJSON("payload", f).Msg("sending message")
	if err := d.Outbox.Send(sid, f); err != nil {
		log.Error().Err(err).Str("module", "app.dispatcher").Str("sid", string(sid)).Msg("send message")
	}
}
