package rtc

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/pion/sdp/v3"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/mirror/internal/config"
	"github.com/dkeye/mirror/internal/core"
	"github.com/dkeye/mirror/internal/domain"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(config.LoopbackConfig{})
	require.NoError(t, err)
	return e
}

func browserOffer(t *testing.T) (*webrtc.PeerConnection, string) {
	t.Helper()
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	_, err = pc.AddTransceiverFromKind(webrtc.RTPCodecTypeVideo)
	require.NoError(t, err)
	offer, err := pc.CreateOffer(nil)
	require.NoError(t, err)
	require.NoError(t, pc.SetLocalDescription(offer))
	return pc, offer.SDP
}

func buildMirror(t *testing.T, ctx context.Context, c core.MediaClient) (core.MediaPipeline, core.WebRtcEndpoint) {
	t.Helper()
	pl, err := c.CreatePipeline(ctx)
	require.NoError(t, err)
	ep, err := pl.CreateWebRtcEndpoint(ctx)
	require.NoError(t, err)
	filter, err := pl.CreateFaceOverlayFilter(ctx, domain.Overlay{URI: "http://x/hat.png", Width: 1.6, Height: 1.6})
	require.NoError(t, err)
	require.NoError(t, ep.Connect(ctx, filter))
	require.NoError(t, filter.Connect(ctx, ep))
	return pl, ep
}

func TestLoopbackAnswer(t *testing.T) {
	ctx := context.Background()
	client, err := newTestEngine(t).NewClient(ctx)
	require.NoError(t, err)
	defer client.Destroy()

	pl, ep := buildMirror(t, ctx, client)
	browser, offer := browserOffer(t)

	answer, err := ep.ProcessOffer(ctx, offer)
	require.NoError(t, err)

	parsed := &sdp.SessionDescription{}
	require.NoError(t, parsed.UnmarshalString(answer))
	require.Len(t, parsed.MediaDescriptions, 1)
	md := parsed.MediaDescriptions[0]
	assert.Equal(t, "video", md.MediaName.Media)
	_, sendrecv := md.Attribute("sendrecv")
	assert.True(t, sendrecv, "mirror endpoint should send media back")

	require.NoError(t, browser.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: answer}))

	require.NoError(t, pl.Release(ctx))
	assert.Equal(t, webrtc.PeerConnectionStateClosed, ep.(*endpoint).pc.ConnectionState())
	assert.NoError(t, pl.Release(ctx), "second release is a no-op")
}

func TestProcessOfferRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	client, err := newTestEngine(t).NewClient(ctx)
	require.NoError(t, err)
	defer client.Destroy()

	_, ep := buildMirror(t, ctx, client)
	_, err = ep.ProcessOffer(ctx, "not sdp")
	assert.Error(t, err)
}

func TestConnectRejectsForeignElements(t *testing.T) {
	ctx := context.Background()
	client, err := newTestEngine(t).NewClient(ctx)
	require.NoError(t, err)
	defer client.Destroy()

	pl1, ep1 := buildMirror(t, ctx, client)
	_, ep2 := buildMirror(t, ctx, client)
	f1, err := pl1.CreateFaceOverlayFilter(ctx, domain.Overlay{})
	require.NoError(t, err)

	assert.Error(t, ep2.Connect(ctx, f1), "filter from another pipeline")
	assert.Error(t, ep1.Connect(ctx, ep2), "endpoint to endpoint")
}

func TestDestroyReleasesPipelines(t *testing.T) {
	ctx := context.Background()
	client, err := newTestEngine(t).NewClient(ctx)
	require.NoError(t, err)

	pl, ep := buildMirror(t, ctx, client)
	require.NoError(t, client.Destroy())
	assert.Equal(t, webrtc.PeerConnectionStateClosed, ep.(*endpoint).pc.ConnectionState())

	_, err = pl.CreateWebRtcEndpoint(ctx)
	assert.ErrorIs(t, err, errReleased)
	_, err = client.CreatePipeline(ctx)
	assert.ErrorIs(t, err, errReleased)
	assert.NoError(t, client.Destroy())
}

func TestCandidateGateHoldsUntilOpened(t *testing.T) {
	var g candidateGate
	var got []string
	g.listen(func(c domain.IceCandidate) { got = append(got, c.Candidate) })

	g.push(domain.IceCandidate{Candidate: "a"})
	g.push(domain.IceCandidate{Candidate: "b"})
	assert.Empty(t, got)

	g.release()
	g.push(domain.IceCandidate{Candidate: "c"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestCandidateGateLateListener(t *testing.T) {
	var g candidateGate
	g.push(domain.IceCandidate{Candidate: "a"})
	g.release()

	var got []string
	g.listen(func(c domain.IceCandidate) { got = append(got, c.Candidate) })
	assert.Equal(t, []string{"a"}, got)
}

type fakeSource struct {
	pkts []*rtp.Packet
}

func (s *fakeSource) ReadRTP() (*rtp.Packet, interceptor.Attributes, error) {
	if len(s.pkts) == 0 {
		return nil, nil, io.EOF
	}
	p := s.pkts[0]
	s.pkts = s.pkts[1:]
	return p, nil, nil
}

type fakeSink struct {
	mu   sync.Mutex
	seqs []uint16
	err  error
}

func (s *fakeSink) WriteRTP(p *rtp.Packet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.seqs = append(s.seqs, p.SequenceNumber)
	return nil
}

func TestRelayForwardsInOrder(t *testing.T) {
	src := &fakeSource{}
	for i := uint16(1); i <= 3; i++ {
		src.pkts = append(src.pkts, &rtp.Packet{Header: rtp.Header{SequenceNumber: i}})
	}
	good := &fakeSink{}
	bad := &fakeSink{err: errors.New("closed")}

	r := newRelay(src)
	r.addOutTrack("good", newOutTrack(good))
	r.addOutTrack("bad", newOutTrack(bad))

	logger := zerolog.Nop()
	done := make(chan struct{})
	go func() {
		r.loop(context.Background(), &logger)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop at EOF")
	}

	assert.Equal(t, []uint16{1, 2, 3}, good.seqs)
	assert.Empty(t, bad.seqs)
	assert.Equal(t, 1, r.len(), "failing out track is dropped")
}

func TestRelayStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ot := newOutTrack(&fakeSink{})
	r := newRelay(&fakeSource{})
	r.addOutTrack("x", ot)

	logger := zerolog.Nop()
	r.loop(ctx, &logger)
	assert.Equal(t, trackStateDelete, ot.getState())
}
