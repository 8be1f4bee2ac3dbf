package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dkeye/mirror/internal/core"
	"github.com/dkeye/mirror/internal/domain"
)

const testOffer = "v=0\r\n" +
	"o=- 4611731400430051336 2 IN IP4 127.0.0.1\r\n" +
	"s=-\r\n" +
	"t=0 0\r\n" +
	"a=group:BUNDLE 0\r\n" +
	"m=video 9 UDP/TLS/RTP/SAVPF 96\r\n" +
	"c=IN IP4 0.0.0.0\r\n" +
	"a=mid:0\r\n" +
	"a=rtpmap:96 VP8/90000\r\n" +
	"a=sendrecv\r\n"

// fakeEngine is an in-memory media server that counts what it hands out.
type fakeEngine struct {
	mu     sync.Mutex
	events []string

	clients           int
	pipelinesReleased int
	clientsDestroyed  int
	endpoints         []*fakeEndpoint

	newClientErr    error
	processOfferErr error
	addCandidateErr error
	// emitted from inside GatherCandidates, before Start returns
	gatherCandidates []domain.IceCandidate
}

func (e *fakeEngine) record(ev string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func (e *fakeEngine) snapshot() (clients, released, destroyed int, events []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clients, e.pipelinesReleased, e.clientsDestroyed, append([]string(nil), e.events...)
}

func (e *fakeEngine) lastEndpoint() *fakeEndpoint {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.endpoints) == 0 {
		return nil
	}
	return e.endpoints[len(e.endpoints)-1]
}

func (e *fakeEngine) NewClient(context.Context) (core.MediaClient, error) {
	if e.newClientErr != nil {
		return nil, e.newClientErr
	}
	e.mu.Lock()
	e.clients++
	n := e.clients
	e.mu.Unlock()
	e.record("client")
	return &fakeClient{engine: e, n: n}, nil
}

type fakeClient struct {
	engine *fakeEngine
	n      int
}

func (c *fakeClient) CreatePipeline(context.Context) (core.MediaPipeline, error) {
	c.engine.record("pipeline")
	return &fakePipeline{engine: c.engine, id: fmt.Sprintf("pipeline-%d", c.n)}, nil
}

func (c *fakeClient) Destroy() error {
	c.engine.mu.Lock()
	c.engine.clientsDestroyed++
	c.engine.mu.Unlock()
	c.engine.record("destroy")
	return nil
}

type fakePipeline struct {
	engine *fakeEngine
	id     string
}

func (p *fakePipeline) ID() string { return p.id }

func (p *fakePipeline) CreateWebRtcEndpoint(context.Context) (core.WebRtcEndpoint, error) {
	ep := &fakeEndpoint{engine: p.engine, id: p.id + "/endpoint"}
	p.engine.mu.Lock()
	p.engine.endpoints = append(p.engine.endpoints, ep)
	p.engine.mu.Unlock()
	return ep, nil
}

func (p *fakePipeline) CreateFaceOverlayFilter(_ context.Context, overlay domain.Overlay) (core.MediaElement, error) {
	p.engine.record("filter " + overlay.URI)
	return &fakeElement{id: p.id + "/filter"}, nil
}

func (p *fakePipeline) Release(context.Context) error {
	p.engine.mu.Lock()
	p.engine.pipelinesReleased++
	p.engine.mu.Unlock()
	p.engine.record("release")
	return nil
}

type fakeElement struct {
	id    string
	sinks []string
}

func (el *fakeElement) ID() string { return el.id }

func (el *fakeElement) Connect(_ context.Context, sink core.MediaElement) error {
	el.sinks = append(el.sinks, sink.ID())
	return nil
}

type fakeEndpoint struct {
	engine *fakeEngine
	id     string
	sinks  []string

	mu         sync.Mutex
	onCand     func(domain.IceCandidate)
	remoteCand []domain.IceCandidate
}

func (ep *fakeEndpoint) ID() string { return ep.id }

func (ep *fakeEndpoint) Connect(_ context.Context, sink core.MediaElement) error {
	ep.sinks = append(ep.sinks, sink.ID())
	return nil
}

func (ep *fakeEndpoint) ProcessOffer(_ context.Context, offer string) (string, error) {
	if ep.engine.processOfferErr != nil {
		return "", ep.engine.processOfferErr
	}
	return "answer-for-" + ep.id, nil
}

func (ep *fakeEndpoint) GatherCandidates(context.Context) error {
	for _, c := range ep.engine.gatherCandidates {
		ep.fire(c)
	}
	return nil
}

func (ep *fakeEndpoint) AddIceCandidate(_ context.Context, c domain.IceCandidate) error {
	if ep.engine.addCandidateErr != nil {
		return ep.engine.addCandidateErr
	}
	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.remoteCand = append(ep.remoteCand, c)
	return nil
}

func (ep *fakeEndpoint) OnIceCandidate(_ context.Context, fn func(domain.IceCandidate)) error {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.onCand = fn
	return nil
}

func (ep *fakeEndpoint) fire(c domain.IceCandidate) {
	ep.mu.Lock()
	fn := ep.onCand
	ep.mu.Unlock()
	if fn != nil {
		fn(c)
	}
}

func (ep *fakeEndpoint) remoteCandidates() []domain.IceCandidate {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	return append([]domain.IceCandidate(nil), ep.remoteCand...)
}

type sentFrame struct {
	sid domain.SessionID
	msg map[string]any
}

// recordingOutbox keeps every frame in send order.
type recordingOutbox struct {
	mu     sync.Mutex
	frames []sentFrame
}

func (o *recordingOutbox) Send(sid domain.SessionID, f core.Frame) error {
	var m map[string]any
	if err := json.Unmarshal(f, &m); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.frames = append(o.frames, sentFrame{sid: sid, msg: m})
	return nil
}

func (o *recordingOutbox) sent(sid domain.SessionID) []map[string]any {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []map[string]any
	for _, f := range o.frames {
		if f.sid == sid {
			out = append(out, f.msg)
		}
	}
	return out
}

func (o *recordingOutbox) ids(sid domain.SessionID) []string {
	var out []string
	for _, m := range o.sent(sid) {
		id, _ := m["id"].(string)
		out = append(out, id)
	}
	return out
}
