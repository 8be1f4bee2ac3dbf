// Package rtc is an in-process Media Engine built on pion/webrtc. Its
// pipelines mirror each inbound track back to the sender; the face overlay
// is recorded but not painted.
package rtc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pion/interceptor"
	"github.com/pion/interceptor/pkg/intervalpli"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/mirror/internal/config"
	"github.com/dkeye/mirror/internal/core"
)

const destroyTimeout = 5 * time.Second

var errReleased = errors.New("rtc: object released")

type Engine struct {
	api        *webrtc.API
	iceServers []webrtc.ICEServer
}

func NewEngine(cfg config.LoopbackConfig) (*Engine, error) {
	m := &webrtc.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	ir := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(m, ir); err != nil {
		return nil, fmt.Errorf("register default interceptors: %w", err)
	}
	// periodic keyframe requests so a late viewer of the mirror gets a picture
	pli, err := intervalpli.NewReceiverInterceptor()
	if err != nil {
		return nil, fmt.Errorf("create PLI interceptor: %w", err)
	}
	ir.Add(pli)

	se := webrtc.SettingEngine{LoggerFactory: pionLoggerFactory{}}
	if cfg.UDPPortMin > 0 && cfg.UDPPortMax > 0 {
		if err := se.SetEphemeralUDPPortRange(cfg.UDPPortMin, cfg.UDPPortMax); err != nil {
			return nil, fmt.Errorf("set UDP port range: %w", err)
		}
	}

	var servers []webrtc.ICEServer
	if len(cfg.STUNURLs) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: cfg.STUNURLs})
	}

	return &Engine{
		api: webrtc.NewAPI(
			webrtc.WithMediaEngine(m),
			webrtc.WithInterceptorRegistry(ir),
			webrtc.WithSettingEngine(se),
		),
		iceServers: servers,
	}, nil
}

func (e *Engine) NewClient(context.Context) (core.MediaClient, error) {
	c := &client{engine: e, id: uuid.NewString()}
	log.Debug().Str("module", "rtc").Str("client", c.id).Msg("client created")
	return c, nil
}

// client owns the pipelines it created; Destroy releases whatever is left.
type client struct {
	engine *Engine
	id     string

	mu        sync.Mutex
	pipelines []*pipeline
	destroyed bool
}

func (c *client) CreatePipeline(context.Context) (core.MediaPipeline, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return nil, errReleased
	}
	p := newPipeline(c.engine)
	c.pipelines = append(c.pipelines, p)
	return p, nil
}

func (c *client) Destroy() error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return nil
	}
	c.destroyed = true
	pipelines := c.pipelines
	c.pipelines = nil
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), destroyTimeout)
	defer cancel()
	var errs []error
	for _, p := range pipelines {
		if err := p.Release(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	log.Debug().Str("module", "rtc").Str("client", c.id).Msg("client destroyed")
	return errors.Join(errs...)
}
