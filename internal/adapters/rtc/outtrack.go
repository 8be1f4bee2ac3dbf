package rtc

import (
	"sync/atomic"

	"github.com/pion/rtp"
)

type trackState int32

const (
	trackStateOk trackState = iota
	trackStateDelete
)

type rtpSink interface {
	WriteRTP(*rtp.Packet) error
}

// outTrack is one destination of a relay.
type outTrack struct {
	sink  rtpSink
	state atomic.Int32 // zero is trackStateOk
}

func newOutTrack(sink rtpSink) *outTrack {
	return &outTrack{sink: sink}
}

func (ot *outTrack) getState() trackState {
	return trackState(ot.state.Load())
}

func (ot *outTrack) markDelete() {
	ot.state.Store(int32(trackStateDelete))
}
