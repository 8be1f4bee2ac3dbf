package app

import (
	"encoding/json"
	"fmt"

	"github.com/pion/sdp/v3"

	"github.com/dkeye/mirror/internal/core"
	"github.com/dkeye/mirror/internal/domain"
)

// Message ids on the wire.
const (
	idStart              = "start"
	idStop               = "stop"
	idOnIceCandidate     = "onIceCandidate"
	idStartResponse      = "startResponse"
	idIceCandidate       = "iceCandidate"
	idNotEnoughResources = "notEnoughResources"
	idError              = "error"
)

// ProtocolError is a malformed or unknown inbound message.
// Message is sent to the peer verbatim.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string { return e.Message }

func invalidID(id string) *ProtocolError {
	return &ProtocolError{Message: "Invalid message with id " + id}
}

func invalidPayload(id, reason string) *ProtocolError {
	return &ProtocolError{Message: fmt.Sprintf("Invalid message with id %s: %s", id, reason)}
}

type (
	startMessage struct {
		SdpOffer string
	}
	stopMessage      struct{}
	candidateMessage struct {
		Candidate domain.IceCandidate
	}
)

// decode turns a raw text frame into one of the inbound message types.
func decode(raw []byte) (any, error) {
	var env struct {
		ID *string `json:"id"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ProtocolError{Message: "Invalid message: " + err.Error()}
	}
	if env.ID == nil {
		return nil, &ProtocolError{Message: "Invalid message without id"}
	}

	switch id := *env.ID; id {
	case idStart:
		var p struct {
			SdpOffer *string `json:"sdpOffer"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, invalidPayload(id, err.Error())
		}
		if p.SdpOffer == nil {
			return nil, invalidPayload(id, "missing sdpOffer")
		}
		if err := validateOffer(*p.SdpOffer); err != nil {
			return nil, invalidPayload(id, err.Error())
		}
		return startMessage{SdpOffer: *p.SdpOffer}, nil

	case idStop:
		return stopMessage{}, nil

	case idOnIceCandidate:
		var p struct {
			Candidate *struct {
				Candidate     *string `json:"candidate"`
				SDPMid        *string `json:"sdpMid"`
				SDPMLineIndex *int    `json:"sdpMLineIndex"`
			} `json:"candidate"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, invalidPayload(id, err.Error())
		}
		c := p.Candidate
		if c == nil || c.Candidate == nil || c.SDPMid == nil || c.SDPMLineIndex == nil {
			return nil, invalidPayload(id, "candidate needs candidate, sdpMid and sdpMLineIndex")
		}
		return candidateMessage{Candidate: domain.IceCandidate{
			Candidate:     *c.Candidate,
			SDPMid:        *c.SDPMid,
			SDPMLineIndex: *c.SDPMLineIndex,
		}}, nil

	default:
		return nil, invalidID(id)
	}
}

// validateOffer rejects offers the media server could never answer.
func validateOffer(offer string) error {
	var sd sdp.SessionDescription
	if err := sd.Unmarshal([]byte(offer)); err != nil {
		return fmt.Errorf("bad sdpOffer: %w", err)
	}
	if len(sd.MediaDescriptions) == 0 {
		return fmt.Errorf("bad sdpOffer: no media sections")
	}
	return nil
}

type (
	startResponseMessage struct {
		ID        string `json:"id"`
		SdpAnswer string `json:"sdpAnswer"`
	}
	iceCandidateMessage struct {
		ID        string              `json:"id"`
		Candidate domain.IceCandidate `json:"candidate"`
	}
	notEnoughResourcesMessage struct {
		ID string `json:"id"`
	}
	errorMessage struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
)

func encode(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}

// jsonOrString keeps log lines valid JSON when a peer sends garbage.
func jsonOrString(raw []byte) []byte {
	if json.Valid(raw) {
		return raw
	}
	b, _ := json.Marshal(string(raw))
	return b
}
