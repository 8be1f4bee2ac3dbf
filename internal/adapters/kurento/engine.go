// Package kurento drives a Kurento Media Server through its JSON-RPC 2.0
// WebSocket API. Every MediaClient owns one socket, like one KurentoClient
// per session.
package kurento

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/jsonrpc2"
	wsrpc "github.com/sourcegraph/jsonrpc2/websocket"

	"github.com/dkeye/mirror/internal/config"
	"github.com/dkeye/mirror/internal/core"
)

type Engine struct {
	url          string
	pingInterval time.Duration
	dialer       *websocket.Dialer
}

func NewEngine(cfg config.KurentoConfig) *Engine {
	return &Engine{
		url:          cfg.URL,
		pingInterval: cfg.PingInterval,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.DialTimeout,
		},
	}
}

// NewClient opens a control socket and a KMS session on it.
// A server answering 503 or NOT_ENOUGH_RESOURCES yields core.ErrResourceExhausted.
func (e *Engine) NewClient(ctx context.Context) (core.MediaClient, error) {
	ws, resp, err := e.dialer.DialContext(ctx, e.url, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusServiceUnavailable {
			return nil, fmt.Errorf("dial kurento %s: %w", e.url, core.ErrResourceExhausted)
		}
		return nil, fmt.Errorf("dial kurento %s: %w", e.url, err)
	}

	c := newClient()
	c.rpc = jsonrpc2.NewConn(context.Background(), wsrpc.NewObjectStream(ws), c)

	if err := c.connect(ctx); err != nil {
		_ = c.rpc.Close()
		return nil, err
	}
	if e.pingInterval > 0 {
		go c.keepAlive(e.pingInterval)
	}
	log.Info().Str("module", "kurento").Str("url", e.url).Str("kms_session", c.session()).Msg("client connected")
	return c, nil
}

// Kurento error data carries a symbolic type next to the numeric code.
const typeNotEnoughResources = "NOT_ENOUGH_RESOURCES"

func mapError(method string, err error) error {
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) {
		return fmt.Errorf("kurento %s: %w", method, err)
	}
	if rpcErr.Data != nil {
		var data struct {
			Type string `json:"type"`
		}
		if jsonErr := unmarshalRaw(*rpcErr.Data, &data); jsonErr == nil && data.Type == typeNotEnoughResources {
			return fmt.Errorf("kurento %s: %s: %w", method, rpcErr.Message, core.ErrResourceExhausted)
		}
	}
	return fmt.Errorf("kurento %s: %w", method, err)
}
