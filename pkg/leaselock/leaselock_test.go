package leaselock

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	key string
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*string); ok {
		*p = r.key
	}
	return nil
}

// fakeConn grants the lock while held is false and reports busy otherwise.
type fakeConn struct {
	mu       sync.Mutex
	held     bool
	acquires int
	releases int
}

func (c *fakeConn) setHeld(held bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = held
}

func (c *fakeConn) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.Contains(sql, "DELETE FROM app_locks") {
		c.releases++
		c.held = false
	}
	return pgconn.CommandTag{}, nil
}

func (c *fakeConn) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.Contains(sql, "INSERT INTO app_locks") {
		c.acquires++
		if c.held {
			return fakeRow{err: pgx.ErrNoRows}
		}
		c.held = true
		return fakeRow{key: args[0].(string)}
	}
	// Renewal succeeds while the lock is held.
	if c.held {
		return fakeRow{key: args[0].(string)}
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func TestWithLease_RunsAndReleases(t *testing.T) {
	conn := &fakeConn{}
	client := New(conn)

	ran := false
	err := client.WithLease(context.Background(), "network_analysis:tenant-1", Options{TTL: time.Minute}, func(ctx context.Context) error {
		ran = true
		if ctx.Err() != nil {
			t.Fatalf("lease context done early: %v", ctx.Err())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !ran {
		t.Fatal("expected fn to run")
	}
	if conn.acquires != 1 {
		t.Fatalf("expected 1 acquire, got %d", conn.acquires)
	}
	if conn.releases != 1 {
		t.Fatalf("expected 1 release, got %d", conn.releases)
	}
}

func TestWithLease_PropagatesFnError(t *testing.T) {
	conn := &fakeConn{}
	client := New(conn)

	wantErr := errors.New("analysis failed")
	err := client.WithLease(context.Background(), "k", Options{TTL: time.Minute}, func(context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if conn.releases != 1 {
		t.Fatalf("expected release despite fn error, got %d", conn.releases)
	}
}

func TestAcquire_BusyWithoutWait(t *testing.T) {
	conn := &fakeConn{held: true}
	client := New(conn)

	_, err := client.Acquire(context.Background(), "k", Options{TTL: time.Minute})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestAcquire_EmptyKey(t *testing.T) {
	client := New(&fakeConn{})
	if _, err := client.Acquire(context.Background(), "", Options{}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestAcquire_WaitUntilFree(t *testing.T) {
	conn := &fakeConn{held: true}
	client := New(conn)

	go func() {
		time.Sleep(50 * time.Millisecond)
		conn.setHeld(false)
	}()

	lease, err := client.Acquire(context.Background(), "k", Options{
		TTL:          time.Minute,
		Wait:         true,
		WaitInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("expected lease after wait, got %v", err)
	}
	if err := lease.Release(context.Background()); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if conn.acquires < 2 {
		t.Fatalf("expected repeated acquire attempts, got %d", conn.acquires)
	}
}
