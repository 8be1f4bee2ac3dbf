package kurento

import (
	"context"
	"fmt"

	"github.com/dkeye/mirror/internal/core"
	"github.com/dkeye/mirror/internal/domain"
)

type pipeline struct {
	client *Client
	id     string
}

func (p *pipeline) ID() string { return p.id }

func (p *pipeline) CreateWebRtcEndpoint(ctx context.Context) (core.WebRtcEndpoint, error) {
	id, err := p.client.create(ctx, "WebRtcEndpoint", map[string]any{"mediaPipeline": p.id})
	if err != nil {
		return nil, err
	}
	return &endpoint{element{client: p.client, id: id}}, nil
}

func (p *pipeline) CreateFaceOverlayFilter(ctx context.Context, ov domain.Overlay) (core.MediaElement, error) {
	id, err := p.client.create(ctx, "FaceOverlayFilter", map[string]any{"mediaPipeline": p.id})
	if err != nil {
		return nil, err
	}
	err = p.client.invoke(ctx, id, "setOverlayedImage", map[string]any{
		"uri":            ov.URI,
		"offsetXPercent": ov.OffsetX,
		"offsetYPercent": ov.OffsetY,
		"widthPercent":   ov.Width,
		"heightPercent":  ov.Height,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &element{client: p.client, id: id}, nil
}

// Release frees the pipeline and every element created in it.
func (p *pipeline) Release(ctx context.Context) error {
	return p.client.release(ctx, p.id)
}

type element struct {
	client *Client
	id     string
}

func (e *element) ID() string { return e.id }

func (e *element) Connect(ctx context.Context, sink core.MediaElement) error {
	if sink == nil {
		return fmt.Errorf("kurento connect %s: nil sink", e.id)
	}
	return e.client.invoke(ctx, e.id, "connect", map[string]any{"sink": sink.ID()}, nil)
}

type endpoint struct {
	element
}

func (e *endpoint) ProcessOffer(ctx context.Context, offer string) (string, error) {
	var answer string
	if err := e.client.invoke(ctx, e.id, "processOffer", map[string]any{"offer": offer}, &answer); err != nil {
		return "", err
	}
	return answer, nil
}

func (e *endpoint) GatherCandidates(ctx context.Context) error {
	return e.client.invoke(ctx, e.id, "gatherCandidates", nil, nil)
}

func (e *endpoint) AddIceCandidate(ctx context.Context, c domain.IceCandidate) error {
	return e.client.invoke(ctx, e.id, "addIceCandidate", map[string]any{
		"candidate": kmsCandidate{
			Module:        "kurento",
			Type:          "IceCandidate",
			Candidate:     c.Candidate,
			SDPMid:        c.SDPMid,
			SDPMLineIndex: c.SDPMLineIndex,
		},
	}, nil)
}

// OnIceCandidate registers fn before subscribing so no event is lost
// between the subscribe reply and the first onEvent.
func (e *endpoint) OnIceCandidate(ctx context.Context, fn func(domain.IceCandidate)) error {
	e.client.listen(e.id, fn)
	return e.client.subscribe(ctx, e.id, eventIceCandidateFound)
}
