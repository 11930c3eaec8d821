package ormbridge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormbridge/ormbridge/logger"
)

type fakeRows struct {
	cols []string
	data [][]interface{}
	i    int
	err  error
}

func (r *fakeRows) Columns() []string { return r.cols }

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...interface{}) error {
	row := r.data[r.i-1]
	for i := range dest {
		switch d := dest[i].(type) {
		case *interface{}:
			*d = row[i]
		case *int64:
			*d = row[i].(int64)
		}
	}
	return nil
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return r.err }

type fakeConn struct {
	mu       sync.Mutex
	queries  []string
	args     [][]interface{}
	rows     *fakeRows
	bind     func(int) string
	closed   int
	closeErr error
}

func (c *fakeConn) Query(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, query)
	c.args = append(c.args, args)
	if c.rows != nil {
		rows := *c.rows
		rows.i = 0
		return &rows, nil
	}
	return &fakeRows{}, nil
}

func (c *fakeConn) Ping(ctx context.Context) error { return nil }

func (c *fakeConn) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return c.closeErr
}

func (c *fakeConn) BindVar(i int) string {
	if c.bind != nil {
		return c.bind(i)
	}
	return "?"
}

func testGate(conn *fakeConn, opens *atomic.Int32) *Gate {
	g := newGate([]connSpec{{alias: "default", backend: backendSQLite, dsn: ":memory:"}}, logger.Discard)
	g.openBackend = func(ctx context.Context, spec connSpec) (Connection, error) {
		if opens != nil {
			opens.Add(1)
		}
		return conn, nil
	}
	return g
}

func TestGateSingleBootstrapUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	var opens atomic.Int32
	g := testGate(&fakeConn{}, &opens)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, g.EnsureInitialized(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), opens.Load())
}

func TestGateInitIdempotent(t *testing.T) {
	ctx := context.Background()
	var opens atomic.Int32
	g := testGate(&fakeConn{}, &opens)

	require.NoError(t, g.Init(ctx))
	require.NoError(t, g.Init(ctx))
	require.NoError(t, g.EnsureInitialized(ctx))

	assert.Equal(t, int32(1), opens.Load())
}

func TestGateCloseUninitializedIsNoop(t *testing.T) {
	g := testGate(&fakeConn{}, nil)
	assert.NoError(t, g.Close(context.Background()))
}

func TestGateInitCloseInitCycle(t *testing.T) {
	ctx := context.Background()
	var opens atomic.Int32
	conn := &fakeConn{}
	g := testGate(conn, &opens)

	require.NoError(t, g.Init(ctx))
	require.NoError(t, g.Close(ctx))
	require.NoError(t, g.Init(ctx))

	assert.Equal(t, int32(2), opens.Load())
	assert.Equal(t, 1, conn.closed)
}

func TestGateCloseToleratesTornDownHandles(t *testing.T) {
	ctx := context.Background()
	conn := &fakeConn{closeErr: errors.New("already closed")}
	g := testGate(conn, nil)

	require.NoError(t, g.Init(ctx))
	assert.NoError(t, g.Close(ctx))

	// reusable after a close that reported errors
	require.NoError(t, g.Init(ctx))
}

func TestGateBootstrapFailureLeavesUninitialized(t *testing.T) {
	ctx := context.Background()
	g := newGate([]connSpec{{alias: "default", backend: backendSQLite}}, logger.Discard)
	g.openBackend = func(ctx context.Context, spec connSpec) (Connection, error) {
		return nil, errors.New("refused")
	}

	err := g.EnsureInitialized(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnectionFailed)
	assert.Contains(t, err.Error(), "refused")

	_, err = g.Connection("default")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestGateBootstrapFailureClosesOpened(t *testing.T) {
	ctx := context.Background()
	first := &fakeConn{}
	g := newGate([]connSpec{
		{alias: "a", backend: backendSQLite},
		{alias: "b", backend: backendSQLite},
	}, logger.Discard)
	g.openBackend = func(ctx context.Context, spec connSpec) (Connection, error) {
		if spec.alias == "a" {
			return first, nil
		}
		return nil, errors.New("refused")
	}

	require.Error(t, g.EnsureInitialized(ctx))
	assert.Equal(t, 1, first.closed)
}

func TestGateConnectionUnknownAlias(t *testing.T) {
	ctx := context.Background()
	g := testGate(&fakeConn{}, nil)

	require.NoError(t, g.Init(ctx))
	_, err := g.Connection("replica")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replica")
}
