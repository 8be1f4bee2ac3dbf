package kurento

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/dkeye/mirror/internal/domain"
)

const (
	methodOnEvent          = "onEvent"
	eventIceCandidateFound = "IceCandidateFound"
)

type kmsCandidate struct {
	Module        string `json:"__module__,omitempty"`
	Type          string `json:"__type__,omitempty"`
	Candidate     string `json:"candidate"`
	SDPMid        string `json:"sdpMid"`
	SDPMLineIndex int    `json:"sdpMLineIndex"`
}

type eventParams struct {
	Value struct {
		Type   string `json:"type"`
		Object string `json:"object"`
		Data   struct {
			Source    string        `json:"source"`
			Type      string        `json:"type"`
			Candidate *kmsCandidate `json:"candidate"`
		} `json:"data"`
	} `json:"value"`
}

// Handle runs on the connection's read loop, so events for one client are
// delivered one at a time in arrival order. Listeners must not block.
func (c *Client) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	if !req.Notif {
		defer func() {
			if err := conn.Reply(ctx, req.ID, map[string]any{"value": nil}); err != nil {
				log.Debug().Err(err).Str("module", "kurento").Msg("reply to server request failed")
			}
		}()
	}
	if req.Method != methodOnEvent || req.Params == nil {
		log.Debug().Str("module", "kurento").Str("method", req.Method).Msg("ignored server message")
		return
	}

	var p eventParams
	if err := json.Unmarshal(*req.Params, &p); err != nil {
		log.Warn().Err(err).Str("module", "kurento").Msg("bad onEvent params")
		return
	}
	if p.Value.Type != eventIceCandidateFound || p.Value.Data.Candidate == nil {
		return
	}

	object := p.Value.Object
	if object == "" {
		object = p.Value.Data.Source
	}
	fn := c.listener(object)
	if fn == nil {
		log.Debug().Str("module", "kurento").Str("object", object).Msg("candidate for unknown endpoint")
		return
	}
	kc := p.Value.Data.Candidate
	fn(domain.IceCandidate{
		Candidate:     kc.Candidate,
		SDPMid:        kc.SDPMid,
		SDPMLineIndex: kc.SDPMLineIndex,
	})
}
