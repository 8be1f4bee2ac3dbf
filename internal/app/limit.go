package app

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/dkeye/mirror/internal/core"
)

// Limit caps the number of live clients of engine at n.
// Going over the cap fails with core.ErrResourceExhausted instead of waiting.
// n <= 0 returns engine unchanged.
func Limit(engine core.MediaEngine, n int64) core.MediaEngine {
	if n <= 0 {
		return engine
	}
	return &limitedEngine{next: engine, sem: semaphore.NewWeighted(n)}
}

type limitedEngine struct {
	next core.MediaEngine
	sem  *semaphore.Weighted
}

func (e *limitedEngine) NewClient(ctx context.Context) (core.MediaClient, error) {
	if !e.sem.TryAcquire(1) {
		return nil, core.ErrResourceExhausted
	}
	c, err := e.next.NewClient(ctx)
	if err != nil {
		e.sem.Release(1)
		return nil, err
	}
	return &limitedClient{MediaClient: c, sem: e.sem}, nil
}

type limitedClient struct {
	core.MediaClient
	sem  *semaphore.Weighted
	once sync.Once
}

func (c *limitedClient) Destroy() error {
	err := c.MediaClient.Destroy()
	c.once.Do(func() { c.sem.Release(1) })
	return err
}
