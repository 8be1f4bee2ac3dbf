package core

import (
	"context"

	"github.com/dkeye/mirror/internal/domain"
)

// MediaEngine hands out clients of the external media server.
// NewClient fails with ErrResourceExhausted when the server cannot take another client.
type MediaEngine interface {
	NewClient(ctx context.Context) (MediaClient, error)
}

// MediaClient is one control connection to the media server.
type MediaClient interface {
	CreatePipeline(ctx context.Context) (MediaPipeline, error)
	// Destroy tears the connection down. Objects created through it become invalid.
	Destroy() error
}

type MediaPipeline interface {
	ID() string
	CreateWebRtcEndpoint(ctx context.Context) (WebRtcEndpoint, error)
	CreateFaceOverlayFilter(ctx context.Context, overlay domain.Overlay) (MediaElement, error)
	// Release frees the pipeline together with every element in it.
	Release(ctx context.Context) error
}

// MediaElement is a node of a pipeline that can feed media into another node.
type MediaElement interface {
	ID() string
	Connect(ctx context.Context, sink MediaElement) error
}

type WebRtcEndpoint interface {
	MediaElement
	// ProcessOffer applies a remote SDP offer and returns the local answer.
	ProcessOffer(ctx context.Context, offer string) (string, error)
	// GatherCandidates starts local ICE gathering; results arrive through OnIceCandidate.
	GatherCandidates(ctx context.Context) error
	// AddIceCandidate applies a remote ICE candidate.
	AddIceCandidate(ctx context.Context, c domain.IceCandidate) error
	// OnIceCandidate sets a callback for newly gathered local ICE candidates.
	// The callback runs on a goroutine owned by the engine.
	OnIceCandidate(ctx context.Context, fn func(domain.IceCandidate)) error
}
