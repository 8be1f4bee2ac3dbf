package kurento

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sourcegraph/jsonrpc2"
	wsrpc "github.com/sourcegraph/jsonrpc2/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/mirror/internal/config"
	"github.com/dkeye/mirror/internal/core"
	"github.com/dkeye/mirror/internal/domain"
)

type call struct {
	Method string
	Params map[string]any
}

// fakeKMS answers the subset of the Kurento protocol the driver uses.
type fakeKMS struct {
	mu       sync.Mutex
	calls    []call
	nextID   int
	refuse   string
	released chan string
}

func newFakeKMS() *fakeKMS {
	return &fakeKMS{released: make(chan string, 8)}
}

func (k *fakeKMS) methods() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]string, 0, len(k.calls))
	for _, c := range k.calls {
		m := c.Method
		if op, ok := c.Params["operation"].(string); ok {
			m += ":" + op
		}
		out = append(out, m)
	}
	return out
}

func (k *fakeKMS) find(method, op string) (map[string]any, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, c := range k.calls {
		if c.Method == method && (op == "" || c.Params["operation"] == op) {
			return c.Params, true
		}
	}
	return nil, false
}

func (k *fakeKMS) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	params := map[string]any{}
	if req.Params != nil {
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
	}
	k.mu.Lock()
	k.calls = append(k.calls, call{Method: req.Method, Params: params})
	refuse := k.refuse == req.Method
	k.nextID++
	id := k.nextID
	k.mu.Unlock()

	if refuse {
		data := json.RawMessage(`{"type":"NOT_ENOUGH_RESOURCES"}`)
		return nil, &jsonrpc2.Error{Code: 40000, Message: "Not enough resources", Data: &data}
	}

	switch req.Method {
	case "connect":
		return map[string]any{"sessionId": "kms-session"}, nil
	case "create":
		typ, _ := params["type"].(string)
		return map[string]any{"value": typ + "-" + string(rune('0'+id)), "sessionId": "kms-session"}, nil
	case "invoke":
		switch params["operation"] {
		case "processOffer":
			return map[string]any{"value": "answer-sdp"}, nil
		case "gatherCandidates":
			object, _ := params["object"].(string)
			for i := 0; i < 2; i++ {
				ev := map[string]any{"value": map[string]any{
					"type":   eventIceCandidateFound,
					"object": object,
					"data": map[string]any{
						"type": eventIceCandidateFound,
						"candidate": map[string]any{
							"candidate":     "candidate:" + string(rune('a'+i)),
							"sdpMid":        "0",
							"sdpMLineIndex": i,
						},
					},
				}}
				if err := conn.Notify(ctx, methodOnEvent, ev); err != nil {
					return nil, err
				}
			}
		}
		return map[string]any{}, nil
	case "release":
		object, _ := params["object"].(string)
		k.released <- object
		return map[string]any{}, nil
	}
	return map[string]any{}, nil
}

func (k *fakeKMS) serve(t *testing.T) string {
	t.Helper()
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := jsonrpc2.NewConn(r.Context(), wsrpc.NewObjectStream(ws), jsonrpc2.HandlerWithError(k.handle))
		<-conn.DisconnectNotify()
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newEngine(url string) *Engine {
	return NewEngine(config.KurentoConfig{URL: url, DialTimeout: 2 * time.Second})
}

func TestNegotiationFlow(t *testing.T) {
	kms := newFakeKMS()
	eng := newEngine(kms.serve(t))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := eng.NewClient(ctx)
	require.NoError(t, err)
	defer client.Destroy()

	pl, err := client.CreatePipeline(ctx)
	require.NoError(t, err)
	ep, err := pl.CreateWebRtcEndpoint(ctx)
	require.NoError(t, err)
	filter, err := pl.CreateFaceOverlayFilter(ctx, domain.Overlay{URI: "http://x/hat.png", OffsetX: -0.35, OffsetY: -1.2, Width: 1.6, Height: 1.6})
	require.NoError(t, err)
	require.NoError(t, ep.Connect(ctx, filter))
	require.NoError(t, filter.Connect(ctx, ep))

	var mu sync.Mutex
	var got []domain.IceCandidate
	require.NoError(t, ep.OnIceCandidate(ctx, func(c domain.IceCandidate) {
		mu.Lock()
		got = append(got, c)
		mu.Unlock()
	}))

	answer, err := ep.ProcessOffer(ctx, "offer-sdp")
	require.NoError(t, err)
	assert.Equal(t, "answer-sdp", answer)
	require.NoError(t, ep.GatherCandidates(ctx))
	require.NoError(t, ep.AddIceCandidate(ctx, domain.IceCandidate{Candidate: "candidate:r", SDPMid: "0", SDPMLineIndex: 0}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 10*time.Millisecond)
	mu.Lock()
	assert.Equal(t, "candidate:a", got[0].Candidate)
	assert.Equal(t, "candidate:b", got[1].Candidate)
	assert.Equal(t, 1, got[1].SDPMLineIndex)
	mu.Unlock()

	assert.Equal(t, []string{
		"connect",
		"create", "create", "create",
		"invoke:setOverlayedImage",
		"invoke:connect", "invoke:connect",
		"subscribe",
		"invoke:processOffer",
		"invoke:gatherCandidates",
		"invoke:addIceCandidate",
	}, kms.methods())

	overlay, ok := kms.find("invoke", "setOverlayedImage")
	require.True(t, ok)
	op := overlay["operationParams"].(map[string]any)
	assert.Equal(t, "http://x/hat.png", op["uri"])
	assert.InDelta(t, -1.2, op["offsetYPercent"], 1e-6)
	assert.Equal(t, "kms-session", overlay["sessionId"])

	add, ok := kms.find("invoke", "addIceCandidate")
	require.True(t, ok)
	cand := add["operationParams"].(map[string]any)["candidate"].(map[string]any)
	assert.Equal(t, "IceCandidate", cand["__type__"])
	assert.Equal(t, "candidate:r", cand["candidate"])

	require.NoError(t, pl.Release(ctx))
	select {
	case obj := <-kms.released:
		assert.Equal(t, pl.ID(), obj)
	case <-time.After(time.Second):
		t.Fatal("pipeline not released")
	}
}

func TestNotEnoughResources(t *testing.T) {
	kms := newFakeKMS()
	kms.refuse = "create"
	eng := newEngine(kms.serve(t))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := eng.NewClient(ctx)
	require.NoError(t, err)
	defer client.Destroy()

	_, err = client.CreatePipeline(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrResourceExhausted)
}

func TestConnectRefused(t *testing.T) {
	kms := newFakeKMS()
	kms.refuse = "connect"
	eng := newEngine(kms.serve(t))

	_, err := eng.NewClient(context.Background())
	assert.ErrorIs(t, err, core.ErrResourceExhausted)
}

func TestServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newEngine("ws" + strings.TrimPrefix(srv.URL, "http")).NewClient(context.Background())
	assert.ErrorIs(t, err, core.ErrResourceExhausted)
}

func TestDialFailure(t *testing.T) {
	_, err := newEngine("ws://127.0.0.1:1/kurento").NewClient(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrResourceExhausted)
}

func TestDestroyIdempotent(t *testing.T) {
	kms := newFakeKMS()
	client, err := newEngine(kms.serve(t)).NewClient(context.Background())
	require.NoError(t, err)
	require.NoError(t, client.Destroy())
	assert.NoError(t, client.Destroy())
}
