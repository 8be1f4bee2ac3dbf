package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/dkeye/mirror/internal/config"
	"github.com/dkeye/mirror/internal/core"
	"github.com/dkeye/mirror/internal/domain"
)

// Handler consumes the inbound side of every signaling connection.
type Handler interface {
	OnMessage(ctx context.Context, sid domain.SessionID, raw []byte)
	OnConnectionClosed(sid domain.SessionID)
}

// SignalWSController upgrades browser connections and owns their sockets.
// It implements core.Outbox for the handler's replies.
type SignalWSController struct {
	Handler Handler

	cfg      config.WSConfig
	upgrader websocket.Upgrader
	pumps    conc.WaitGroup

	mu    sync.RWMutex
	conns map[domain.SessionID]*wsSignalConn
}

func NewSignalWSController(cfg config.WSConfig) *SignalWSController {
	if cfg.PingPeriod <= 0 {
		cfg.PingPeriod = 54 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = 32768
	}
	return &SignalWSController{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[domain.SessionID]*wsSignalConn),
	}
}

type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// Send queues f for the connection sid. A connection whose queue is full
// is closed, which in turn releases its session.
func (ctl *SignalWSController) Send(sid domain.SessionID, f core.Frame) error {
	ctl.mu.RLock()
	c, ok := ctl.conns[sid]
	ctl.mu.RUnlock()
	if !ok {
		return core.ErrUnknownConn
	}
	err := c.TrySend(f)
	if errors.Is(err, core.ErrBackpressure) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("outbound queue full, closing connection")
		c.Close()
	}
	return err
}

// Active reports the number of open signaling connections.
func (ctl *SignalWSController) Active() int {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	return len(ctl.conns)
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := domain.SessionID(uuid.NewString())
	log.Info().
		Str("module", "signal").
		Str("sid", string(sid)).
		Str("client_token", c.GetString("client_token")).
		Str("remote", c.ClientIP()).
		Msg("new WS connection")

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.cfg.SendBuffer),
	}
	ctl.mu.Lock()
	ctl.conns[sid] = conn
	ctl.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	ctl.pumps.Go(func() { ctl.writePump(ctx, sid, conn) })
	ctl.pumps.Go(func() {
		defer cancel()
		ctl.readPump(ctx, sid, conn)
	})
}

func (ctl *SignalWSController) unbind(sid domain.SessionID) {
	ctl.mu.Lock()
	delete(ctl.conns, sid)
	ctl.mu.Unlock()
}

// Shutdown closes every connection and waits for the pumps to drain
// or ctx to expire.
func (ctl *SignalWSController) Shutdown(ctx context.Context) error {
	ctl.mu.RLock()
	open := make([]*wsSignalConn, 0, len(ctl.conns))
	for _, c := range ctl.conns {
		open = append(open, c)
	}
	ctl.mu.RUnlock()

	for _, c := range open {
		c.Close()
	}

	done := make(chan struct{})
	go func() {
		ctl.pumps.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
