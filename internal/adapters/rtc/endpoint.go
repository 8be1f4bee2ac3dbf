package rtc

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/sdp/v3"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"

	"github.com/dkeye/mirror/internal/core"
	"github.com/dkeye/mirror/internal/domain"
)

type endpoint struct {
	id       string
	pipeline *pipeline
	pc       *webrtc.PeerConnection
	logger   zerolog.Logger
	gate     candidateGate

	mu      sync.Mutex
	sink    *overlayFilter
	feed    *overlayFilter
	outputs map[webrtc.RTPCodecType]*webrtc.TrackLocalStaticRTP
}

func newEndpoint(p *pipeline) (*endpoint, error) {
	pc, err := p.engine.api.NewPeerConnection(webrtc.Configuration{ICEServers: p.engine.iceServers})
	if err != nil {
		return nil, fmt.Errorf("new peer connection: %w", err)
	}
	id := uuid.NewString()
	e := &endpoint{
		id:       id,
		pipeline: p,
		pc:       pc,
		logger:   p.logger.With().Str("endpoint", id).Logger(),
		outputs:  make(map[webrtc.RTPCodecType]*webrtc.TrackLocalStaticRTP),
	}

	pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		e.logger.Info().Str("ice_state", s.String()).Msg("ICE state")
	})
	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		e.logger.Info().Str("peer_connection_state", s.String()).Msg("peer state")
	})
	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		init := c.ToJSON()
		ic := domain.IceCandidate{Candidate: init.Candidate}
		if init.SDPMid != nil {
			ic.SDPMid = *init.SDPMid
		}
		if init.SDPMLineIndex != nil {
			ic.SDPMLineIndex = int(*init.SDPMLineIndex)
		}
		e.gate.push(ic)
	})
	pc.OnTrack(e.onTrack)
	return e, nil
}

func (e *endpoint) ID() string { return e.id }

func (e *endpoint) Connect(_ context.Context, sink core.MediaElement) error {
	f, ok := sink.(*overlayFilter)
	if !ok || f.pipeline != e.pipeline {
		return fmt.Errorf("rtc: endpoint %s cannot connect to %T", e.id, sink)
	}
	e.mu.Lock()
	e.sink = f
	e.mu.Unlock()
	return nil
}

func (e *endpoint) ProcessOffer(_ context.Context, offer string) (string, error) {
	parsed := &sdp.SessionDescription{}
	if err := parsed.UnmarshalString(offer); err != nil {
		return "", fmt.Errorf("rtc: parse offer: %w", err)
	}
	if err := e.pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: offer}); err != nil {
		return "", fmt.Errorf("rtc: set remote description: %w", err)
	}
	if err := e.attachOutputs(parsed); err != nil {
		return "", err
	}
	answer, err := e.pc.CreateAnswer(nil)
	if err != nil {
		return "", fmt.Errorf("rtc: create answer: %w", err)
	}
	if err := e.pc.SetLocalDescription(answer); err != nil {
		return "", fmt.Errorf("rtc: set local description: %w", err)
	}
	return e.pc.LocalDescription().SDP, nil
}

// GatherCandidates opens the candidate gate; pion starts gathering on
// SetLocalDescription.
func (e *endpoint) GatherCandidates(context.Context) error {
	e.gate.release()
	return nil
}

func (e *endpoint) AddIceCandidate(_ context.Context, c domain.IceCandidate) error {
	if c.SDPMLineIndex < 0 || c.SDPMLineIndex > 0xffff {
		return fmt.Errorf("rtc: bad sdpMLineIndex %d", c.SDPMLineIndex)
	}
	mid := c.SDPMid
	idx := uint16(c.SDPMLineIndex)
	return e.pc.AddICECandidate(webrtc.ICECandidateInit{
		Candidate:     c.Candidate,
		SDPMid:        &mid,
		SDPMLineIndex: &idx,
	})
}

func (e *endpoint) OnIceCandidate(_ context.Context, fn func(domain.IceCandidate)) error {
	e.gate.listen(fn)
	return nil
}

// attachOutputs adds one local track per offered media kind when a filter
// feeds this endpoint, using the first real codec the offer lists.
func (e *endpoint) attachOutputs(offer *sdp.SessionDescription) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.feed == nil {
		return nil
	}
	for _, md := range offer.MediaDescriptions {
		kind := webrtc.NewRTPCodecType(md.MediaName.Media)
		if kind == 0 {
			continue
		}
		if _, ok := e.outputs[kind]; ok {
			continue
		}
		codec, ok := firstCodec(offer, md)
		if !ok {
			continue
		}
		capability := webrtc.RTPCodecCapability{
			MimeType:    md.MediaName.Media + "/" + codec.Name,
			ClockRate:   codec.ClockRate,
			SDPFmtpLine: codec.Fmtp,
		}
		if kind == webrtc.RTPCodecTypeAudio && codec.EncodingParameters != "" {
			var ch uint16
			if _, err := fmt.Sscan(codec.EncodingParameters, &ch); err == nil {
				capability.Channels = ch
			}
		}
		track, err := webrtc.NewTrackLocalStaticRTP(capability, kind.String(), "mirror-"+e.id)
		if err != nil {
			return fmt.Errorf("rtc: new %s track: %w", kind, err)
		}
		sender, err := e.pc.AddTrack(track)
		if err != nil {
			return fmt.Errorf("rtc: add %s track: %w", kind, err)
		}
		e.outputs[kind] = track
		e.pipeline.spawn(func() { drainRTCP(sender) })
		e.logger.Debug().Str("kind", kind.String()).Str("mime", capability.MimeType).Msg("mirror output attached")
	}
	return nil
}

func (e *endpoint) output(kind webrtc.RTPCodecType) *webrtc.TrackLocalStaticRTP {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outputs[kind]
}

func (e *endpoint) onTrack(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
	e.logger.Info().
		Str("kind", track.Kind().String()).
		Str("track_id", track.ID()).
		Str("stream_id", track.StreamID()).
		Str("mime", track.Codec().MimeType).
		Msg("OnTrack received")

	e.mu.Lock()
	sink := e.sink
	e.mu.Unlock()
	if sink == nil {
		e.logger.Debug().Msg("no sink connected, dropping track")
		return
	}
	sink.mirror(track, e.logger)
}

func (e *endpoint) close() error {
	if err := e.pc.Close(); err != nil {
		e.logger.Error().Err(err).Msg("close error")
		return err
	}
	e.logger.Debug().Msg("closed")
	return nil
}

// drainRTCP keeps interceptors fed until the sender stops.
func drainRTCP(sender *webrtc.RTPSender) {
	buf := make([]byte, 1500)
	for {
		if _, _, err := sender.Read(buf); err != nil {
			return
		}
	}
}

func firstCodec(s *sdp.SessionDescription, md *sdp.MediaDescription) (sdp.Codec, bool) {
	for _, f := range md.MediaName.Formats {
		var pt uint8
		if _, err := fmt.Sscan(f, &pt); err != nil {
			continue
		}
		codec, err := s.GetCodecForPayloadType(pt)
		if err != nil {
			continue
		}
		switch strings.ToLower(codec.Name) {
		case "rtx", "red", "ulpfec", "flexfec-03":
			continue
		}
		return codec, true
	}
	return sdp.Codec{}, false
}
