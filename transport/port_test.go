package transport

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-fpsensor/channel"
	"github.com/arloliu/go-fpsensor/packet"
)

// fakeLine is a serial line whose device side is driven by the test.
type fakeLine struct {
	r    *io.PipeReader
	feed *io.PipeWriter

	mu      sync.Mutex
	written bytes.Buffer
	onWrite func(b []byte)
}

func newFakeLine() *fakeLine {
	r, w := io.Pipe()
	return &fakeLine{r: r, feed: w}
}

func (l *fakeLine) Read(b []byte) (int, error) { return l.r.Read(b) }

func (l *fakeLine) Write(b []byte) (int, error) {
	l.mu.Lock()
	l.written.Write(b)
	hook := l.onWrite
	l.mu.Unlock()

	if hook != nil {
		hook(append([]byte(nil), b...))
	}

	return len(b), nil
}

func (l *fakeLine) Close() error { return l.r.Close() }

func (l *fakeLine) bytesWritten() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]byte(nil), l.written.Bytes()...)
}

func newTestPort(t *testing.T) (*Port, *fakeLine) {
	t.Helper()

	cfg, err := NewConfig(DefaultBaud)
	require.NoError(t, err)

	line := newFakeLine()
	p := newPort("fake", line, cfg)
	t.Cleanup(func() { _ = p.Close() })

	return p, line
}

func TestPort_DeliversChunks(t *testing.T) {
	p, line := newTestPort(t)

	var (
		mu  sync.Mutex
		got []byte
	)
	p.SetReceiver(func(chunk []byte) {
		mu.Lock()
		got = append(got, chunk...)
		mu.Unlock()
	})

	_, err := line.feed.Write([]byte{0xEF, 0x01})
	require.NoError(t, err)
	_, err = line.feed.Write([]byte{0xFF, 0xFF})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return bytes.Equal(got, []byte{0xEF, 0x01, 0xFF, 0xFF})
	}, time.Second, 5*time.Millisecond)
}

func TestPort_WriteAndClose(t *testing.T) {
	p, line := newTestPort(t)

	n, err := p.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, p.Drain())
	assert.Equal(t, []byte{1, 2, 3}, line.bytesWritten())
	assert.Equal(t, "Opened", p.state.String())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, "Closed", p.state.String())

	_, err = p.Write([]byte{4})
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, p.Drain(), ErrClosed)
}

func TestPort_ChannelRoundTrip(t *testing.T) {
	p, line := newTestPort(t)

	ack := packet.NewAck(packet.DefaultAddress, packet.CodeOK, nil).Pack()
	line.onWrite = func([]byte) {
		go func() {
			time.Sleep(20 * time.Millisecond)
			_, _ = line.feed.Write(ack[:5])
			_, _ = line.feed.Write(ack[5:])
		}()
	}

	ch, err := channel.New(p, channel.WithTimeout(time.Second))
	require.NoError(t, err)

	raw, err := packet.Encode(packet.DefaultAddress, packet.KindCommand, packet.InstructionPortControl, packet.Byte(0))
	require.NoError(t, err)

	resp, err := ch.Send(context.Background(), channel.Request{
		Instruction: packet.InstructionPortControl,
		Packet:      raw,
		ResponseLen: packet.MinPacketSize,
		Address:     packet.DefaultAddress,
	})
	require.NoError(t, err)
	assert.Equal(t, packet.CodeOK, resp.Confirmation())
	assert.Equal(t, raw, line.bytesWritten())
}

func TestOpen_MissingDevice(t *testing.T) {
	_, err := Open("/dev/does-not-exist-fpsensor", DefaultBaud)
	require.Error(t, err)

	_, err = Open("/dev/ttyUSB0", 1234)
	require.Error(t, err)
}

func TestNewConfig(t *testing.T) {
	for _, baud := range []int{9600, 57600, 115200} {
		cfg, err := NewConfig(baud)
		require.NoError(t, err)
		assert.Equal(t, baud, cfg.Baud())
		assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout())
	}

	for _, baud := range []int{0, 4800, 124800, 57601} {
		_, err := NewConfig(baud)
		require.Error(t, err, "baud %d", baud)
	}

	for _, opt := range []Option{
		WithDataBits(4),
		WithDataBits(9),
		WithStopBits(3),
		WithParity("M"),
		WithReadTimeout(0),
		WithLogger(nil),
	} {
		_, err := NewConfig(DefaultBaud, opt)
		require.Error(t, err)
	}

	cfg, err := NewConfig(DefaultBaud, WithDataBits(7), WithStopBits(2), WithParity("E"), WithReadTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.dataBits)
	assert.Equal(t, 2, cfg.stopBits)
	assert.Equal(t, "E", cfg.parity)
}
