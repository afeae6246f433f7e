package channel

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/arloliu/go-fpsensor/packet"
	"github.com/stretchr/testify/require"
)

// fakeTransport records writes and lets tests script incoming bytes.
type fakeTransport struct {
	mu      sync.Mutex
	recv    func([]byte)
	written [][]byte
	closed  bool

	writeErr error
	drainErr error

	// onWrite runs synchronously inside Write, before the channel arms.
	onWrite func(p []byte)
	// onDrain runs in its own goroutine once Drain has been called.
	onDrain func()
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}

	f.mu.Lock()
	f.written = append(f.written, append([]byte(nil), p...))
	onWrite := f.onWrite
	f.mu.Unlock()

	if onWrite != nil {
		onWrite(p)
	}

	return len(p), nil
}

func (f *fakeTransport) Drain() error {
	if f.drainErr != nil {
		return f.drainErr
	}

	f.mu.Lock()
	onDrain := f.onDrain
	f.mu.Unlock()

	if onDrain != nil {
		go onDrain()
	}

	return nil
}

func (f *fakeTransport) SetReceiver(fn func(chunk []byte)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.recv = fn
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return errors.New("already closed")
	}
	f.closed = true

	return nil
}

func (f *fakeTransport) deliver(chunk []byte) {
	f.mu.Lock()
	recv := f.recv
	f.mu.Unlock()

	recv(chunk)
}

// replyInChunks makes the transport answer every drained command with resp,
// split into the given chunk sizes.
func (f *fakeTransport) replyInChunks(resp []byte, sizes ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.onDrain = func() {
		off := 0
		for _, n := range sizes {
			f.deliver(resp[off : off+n])
			off += n
			time.Sleep(time.Millisecond)
		}
		if off < len(resp) {
			f.deliver(resp[off:])
		}
	}
}

func (f *fakeTransport) writes() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.written
}

func newTestChannel(t *testing.T, opts ...Option) (*Channel, *fakeTransport) {
	t.Helper()

	ft := &fakeTransport{}
	defaults := []Option{WithTimeout(200 * time.Millisecond)}

	c, err := New(ft, append(defaults, opts...)...)
	require.NoError(t, err)

	return c, ft
}

func ackBytes(t *testing.T, code packet.ConfirmationCode, payload []byte) []byte {
	t.Helper()

	return packet.NewAck(packet.DefaultAddress, code, payload).Pack()
}

func handshakeRequest(t *testing.T) Request {
	t.Helper()

	buf, err := packet.Encode(packet.DefaultAddress, packet.KindCommand, packet.InstructionPortControl, packet.Byte(0))
	require.NoError(t, err)

	return Request{
		Instruction: packet.InstructionPortControl,
		Packet:      buf,
		ResponseLen: 12,
		Address:     packet.DefaultAddress,
	}
}

func searchRequest(t *testing.T) Request {
	t.Helper()

	buf, err := packet.Encode(packet.DefaultAddress, packet.KindCommand, packet.InstructionSearch,
		packet.Byte(1), packet.Uint16(0), packet.Uint16(200))
	require.NoError(t, err)

	return Request{
		Instruction: packet.InstructionSearch,
		Packet:      buf,
		ResponseLen: 16,
		Address:     packet.DefaultAddress,
	}
}

// waitArmed blocks until c has an armed pending request.
func waitArmed(t *testing.T, c *Channel) {
	t.Helper()

	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()

		return c.pending != nil && c.pending.armed
	}, time.Second, time.Millisecond)
}
