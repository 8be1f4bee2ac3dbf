package kurento

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/dkeye/mirror/internal/core"
	"github.com/dkeye/mirror/internal/domain"
)

const pingTimeout = 5 * time.Second

// Client is one JSON-RPC connection to KMS and the objects created over it.
type Client struct {
	rpc *jsonrpc2.Conn

	mu        sync.RWMutex
	sessionID string
	listeners map[string]func(domain.IceCandidate)

	done    chan struct{}
	destroy sync.Once
}

func newClient() *Client {
	return &Client{
		listeners: make(map[string]func(domain.IceCandidate)),
		done:      make(chan struct{}),
	}
}

type result struct {
	Value     json.RawMessage `json:"value,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
}

func (c *Client) session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

func (c *Client) call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	if sid := c.session(); sid != "" {
		params["sessionId"] = sid
	}
	var res result
	if err := c.rpc.Call(ctx, method, params, &res); err != nil {
		return nil, mapError(method, err)
	}
	if res.SessionID != "" {
		c.mu.Lock()
		c.sessionID = res.SessionID
		c.mu.Unlock()
	}
	return res.Value, nil
}

func (c *Client) connect(ctx context.Context) error {
	_, err := c.call(ctx, "connect", map[string]any{})
	return err
}

func (c *Client) create(ctx context.Context, typ string, ctor map[string]any) (string, error) {
	v, err := c.call(ctx, "create", map[string]any{
		"type":              typ,
		"constructorParams": ctor,
		"properties":        map[string]any{},
	})
	if err != nil {
		return "", err
	}
	var id string
	if err := unmarshalRaw(v, &id); err != nil {
		return "", fmt.Errorf("kurento create %s: bad object id: %w", typ, err)
	}
	return id, nil
}

func (c *Client) invoke(ctx context.Context, object, op string, opParams map[string]any, out any) error {
	params := map[string]any{
		"object":    object,
		"operation": op,
	}
	if opParams != nil {
		params["operationParams"] = opParams
	}
	v, err := c.call(ctx, "invoke", params)
	if err != nil {
		return err
	}
	if out != nil {
		if err := unmarshalRaw(v, out); err != nil {
			return fmt.Errorf("kurento invoke %s: bad result: %w", op, err)
		}
	}
	return nil
}

func (c *Client) subscribe(ctx context.Context, object, event string) error {
	_, err := c.call(ctx, "subscribe", map[string]any{
		"object": object,
		"type":   event,
	})
	return err
}

func (c *Client) release(ctx context.Context, object string) error {
	_, err := c.call(ctx, "release", map[string]any{"object": object})
	return err
}

func (c *Client) listen(object string, fn func(domain.IceCandidate)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners[object] = fn
}

func (c *Client) listener(object string) func(domain.IceCandidate) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listeners[object]
}

func (c *Client) CreatePipeline(ctx context.Context) (core.MediaPipeline, error) {
	id, err := c.create(ctx, "MediaPipeline", map[string]any{})
	if err != nil {
		return nil, err
	}
	return &pipeline{client: c, id: id}, nil
}

// Destroy closes the socket. KMS drops whatever the session still holds
// once its keepalive lapses, so it is fine to call after a failed release.
func (c *Client) Destroy() error {
	var err error
	c.destroy.Do(func() {
		close(c.done)
		err = c.rpc.Close()
		log.Info().Str("module", "kurento").Str("kms_session", c.session()).Msg("client destroyed")
	})
	return err
}

func (c *Client) keepAlive(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-c.rpc.DisconnectNotify():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
			_, err := c.call(ctx, "ping", map[string]any{"interval": interval.Milliseconds()})
			cancel()
			if err != nil {
				log.Warn().Err(err).Str("module", "kurento").Str("kms_session", c.session()).Msg("ping failed")
			}
		}
	}
}

func unmarshalRaw(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("empty value")
	}
	return json.Unmarshal(raw, v)
}
