package ormbridge

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ormbridge/ormbridge/logger"
)

// Gate guards lazy initialization of the configured database connections.
// The fast path is a single atomic load; the slow path re-checks under the
// mutex so concurrent callers bootstrap exactly once.
type Gate struct {
	initialized atomic.Bool
	mu          sync.Mutex
	conns       map[string]Connection

	specs []connSpec
	log   logger.Interface

	// openBackend is swappable in tests
	openBackend func(ctx context.Context, spec connSpec) (Connection, error)
}

func newGate(specs []connSpec, log logger.Interface) *Gate {
	return &Gate{
		specs:       specs,
		log:         log,
		openBackend: openConnection,
	}
}

// EnsureInitialized opens the configured connections on first use. Safe
// for concurrent callers; later calls are a single atomic load.
func (g *Gate) EnsureInitialized(ctx context.Context) error {
	if g.initialized.Load() {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.initialized.Load() {
		return nil
	}
	return g.bootstrap(ctx)
}

// Init eagerly initializes the connections. Idempotent.
func (g *Gate) Init(ctx context.Context) error {
	return g.EnsureInitialized(ctx)
}

// bootstrap opens one connection per configured database. Any failure
// closes what was opened and leaves the gate uninitialized.
func (g *Gate) bootstrap(ctx context.Context) error {
	conns := map[string]Connection{}

	for _, spec := range g.specs {
		conn, err := g.openBackend(ctx, spec)
		if err != nil {
			for alias, opened := range conns {
				if cerr := opened.Close(ctx); cerr != nil {
					g.log.Warn(ctx, "closing connection %q after failed bootstrap: %v", alias, cerr)
				}
			}
			return fmt.Errorf("%w: opening database %q: %w", ErrConnectionFailed, spec.alias, err)
		}
		conns[spec.alias] = conn
		g.log.Info(ctx, "opened database connection %q", spec.alias)
	}

	g.conns = conns
	g.initialized.Store(true)
	return nil
}

// Connection returns the connection for an alias. The gate must be
// initialized first.
func (g *Gate) Connection(alias string) (Connection, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.initialized.Load() {
		return nil, ErrNotInitialized
	}
	conn, ok := g.conns[alias]
	if !ok {
		return nil, fmt.Errorf("no database configured under alias %q", alias)
	}
	return conn, nil
}

// Close tears down all connections. Calling it on an uninitialized gate is
// a no-op, and close errors from handles already torn down externally are
// tolerated. The gate can be initialized again afterwards.
func (g *Gate) Close(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.initialized.Load() {
		return nil
	}

	for alias, conn := range g.conns {
		if err := conn.Close(ctx); err != nil {
			g.log.Warn(ctx, "closing connection %q: %v", alias, err)
		}
	}
	g.conns = nil
	g.initialized.Store(false)
	return nil
}
