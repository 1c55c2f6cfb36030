// Package session owns the process-wide engine handle: one expensive load,
// many short-lived operations borrowing the result.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"mediakit/internal/engine"
	"mediakit/pkg/config"
)

type loaderFunc func(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*engine.Engine, error)

// Manager lazily initializes a single shared engine instance. Concurrent
// acquisitions share one in-flight load instead of racing; a failed load is
// not cached, so a later call retries from scratch.
type Manager struct {
	cfg  *config.Config
	log  *logrus.Logger
	load loaderFunc

	group  singleflight.Group
	mu     sync.RWMutex
	handle *engine.Engine
}

// NewManager creates a session manager. The engine is not loaded until the
// first Acquire.
func NewManager(cfg *config.Config, log *logrus.Logger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{cfg: cfg, log: log, load: engine.Load}
}

// Acquire returns the shared engine handle, loading it on first demand.
func (m *Manager) Acquire(ctx context.Context) (*engine.Engine, error) {
	m.mu.RLock()
	handle := m.handle
	m.mu.RUnlock()
	if handle != nil {
		return handle, nil
	}

	v, err, _ := m.group.Do("engine-load", func() (any, error) {
		// A flight that finished between our read and this one may have
		// cached already.
		m.mu.RLock()
		cached := m.handle
		m.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		eng, err := m.load(ctx, m.cfg, m.log)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.handle = eng
		m.mu.Unlock()
		return eng, nil
	})
	if err != nil {
		return nil, fmt.Errorf("engine initialization failed: %w", err)
	}
	return v.(*engine.Engine), nil
}
