package ws

import (
	"errors"
	"os"
	"sync"
	"testing"

	"security-monitor/internal/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	os.Exit(m.Run())
}

type fakeConn struct {
	mu       sync.Mutex
	written  []interface{}
	writeErr error
	closed   bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, v)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) messages() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]interface{}(nil), f.written...)
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	conns := []*fakeConn{{}, {}, {}}
	for _, c := range conns {
		hub.Register(c)
	}

	hub.Broadcast(map[string]string{"type": "device_update"})

	for i, c := range conns {
		if got := len(c.messages()); got != 1 {
			t.Errorf("subscriber %d received %d messages, want 1", i, got)
		}
	}
}

func TestBroadcastDropsFailingSubscriber(t *testing.T) {
	hub := NewHub()
	healthy := &fakeConn{}
	broken := &fakeConn{writeErr: errors.New("connection reset")}

	hub.Register(healthy)
	hub.Register(broken)

	hub.Broadcast("first")
	hub.Broadcast("second")

	if got := len(healthy.messages()); got != 2 {
		t.Errorf("healthy subscriber received %d messages, want 2", got)
	}
	if !broken.isClosed() {
		t.Error("failing subscriber must be closed")
	}
	if hub.Count() != 1 {
		t.Errorf("subscriber count = %d, want 1", hub.Count())
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	client := hub.Register(conn)

	hub.Unregister(client)
	hub.Unregister(client)

	if hub.Count() != 0 {
		t.Errorf("subscriber count = %d, want 0", hub.Count())
	}
	if !conn.isClosed() {
		t.Error("connection must be closed on unregister")
	}
}

func TestBroadcastWithNoSubscribers(t *testing.T) {
	hub := NewHub()
	hub.Broadcast("into the void")

	if hub.Count() != 0 {
		t.Errorf("subscriber count = %d, want 0", hub.Count())
	}
}

func TestConcurrentBroadcasts(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Register(conn)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			hub.Broadcast(i)
		}(i)
	}
	wg.Wait()

	if got := len(conn.messages()); got != n {
		t.Errorf("received %d messages, want %d", got, n)
	}
}
