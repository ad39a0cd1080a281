package connection

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// fakeTransport delivers frames pushed by the test and records writes.
type fakeTransport struct {
	inbound chan []byte
	closed  chan struct{}
	once    sync.Once

	mu       sync.Mutex
	written  [][]byte
	writeErr error
	closes   int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		inbound: make(chan []byte),
		closed:  make(chan struct{}),
	}
}

func (f *fakeTransport) ReadMessage() (int, []byte, error) {
	select {
	case data := <-f.inbound:
		return websocket.TextMessage, data, nil
	case <-f.closed:
		return 0, nil, io.EOF
	}
}

func (f *fakeTransport) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, append([]byte(nil), data...))
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	f.closes++
	f.mu.Unlock()
	f.once.Do(func() { close(f.closed) })
	return nil
}

// drop simulates the peer going away.
func (f *fakeTransport) drop() {
	f.once.Do(func() { close(f.closed) })
}

func (f *fakeTransport) writes() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.written...)
}

func (f *fakeTransport) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

func (f *fakeTransport) failWrites(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

type dialOutcome struct {
	transport Transport
	err       error
}

// fakeDialer blocks each Dial until the test supplies an outcome.
type fakeDialer struct {
	outcomes chan dialOutcome

	mu    sync.Mutex
	calls []time.Time
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{outcomes: make(chan dialOutcome)}
}

func (d *fakeDialer) Dial(ctx context.Context, _ string) (Transport, error) {
	d.mu.Lock()
	d.calls = append(d.calls, time.Now())
	d.mu.Unlock()

	select {
	case o := <-d.outcomes:
		return o.transport, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *fakeDialer) accept(t Transport) {
	d.outcomes <- dialOutcome{transport: t}
}

func (d *fakeDialer) refuse() {
	d.outcomes <- dialOutcome{err: errors.New("connection refused")}
}

func (d *fakeDialer) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func (d *fakeDialer) callTimes() []time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]time.Time(nil), d.calls...)
}
