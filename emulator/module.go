// Package emulator provides an in-process fingerprint module that speaks the
// packet protocol. It implements the channel transport contract and is used
// as the device double in tests and by the demo command's simulate mode.
package emulator

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-fpsensor/internal/pool"
	"github.com/arloliu/go-fpsensor/internal/queue"
	"github.com/arloliu/go-fpsensor/internal/util"
	"github.com/arloliu/go-fpsensor/logger"
	"github.com/arloliu/go-fpsensor/packet"
)

// ErrClosed is returned by Write and Drain after Close.
var ErrClosed = errors.New("emulator: closed")

// Finger identifies a fingerprint presented to the sensor. Equal values are
// the same finger.
type Finger uint32

// NoFinger is an empty sensor.
const NoFinger Finger = 0

// Module is an emulated fingerprint module.
type Module struct {
	cfg    *Config
	logger logger.Logger
	ctx    context.Context
	cancel context.CancelFunc

	// library and notepad are read by test assertions while commands run.
	library *xsync.MapOf[uint16, Finger]
	notepad *xsync.MapOf[byte, []byte]

	mu       sync.Mutex
	receiver func(chunk []byte)
	rx       []byte
	outbox   *queue.Queue[[]byte]
	closed   bool
	mute     bool

	address        uint32
	password       uint32
	securityLevel  uint16
	baudDivisor    uint16
	packetSizeCode uint16
	image          Finger
	buffers        [3]Finger
	fingers        *queue.Queue[Finger]
	failures       map[packet.Instruction]*queue.Queue[packet.ConfirmationCode]
	missAsOK       bool
	commands       []packet.Instruction
}

// New creates a Module.
func New(opts ...Option) (*Module, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Module{
		cfg:            cfg,
		logger:         cfg.logger.With("component", "emulator"),
		ctx:            ctx,
		cancel:         cancel,
		library:        xsync.NewMapOf[uint16, Finger](),
		notepad:        xsync.NewMapOf[byte, []byte](),
		address:        cfg.address,
		password:       cfg.password,
		securityLevel:  cfg.securityLevel,
		baudDivisor:    DefaultBaudDivisor,
		packetSizeCode: DefaultPacketSize,
		outbox:         queue.New[[]byte](1),
		fingers:        queue.New[Finger](4),
		failures:       make(map[packet.Instruction]*queue.Queue[packet.ConfirmationCode]),
	}, nil
}

// SetReceiver registers the callback that receives response bytes.
func (m *Module) SetReceiver(fn func(chunk []byte)) {
	m.mu.Lock()
	m.receiver = fn
	m.mu.Unlock()
}

// Write accepts command bytes. Complete packets are executed immediately and
// their responses are held until the next Drain.
func (m *Module) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}

	m.rx = append(m.rx, p...)
	for {
		// resynchronize on the header
		for len(m.rx) >= 2 && binary.BigEndian.Uint16(m.rx) != packet.Header {
			m.rx = m.rx[1:]
		}
		if len(m.rx) < 9 {
			break
		}

		total, ok := packet.FrameSize(m.rx)
		if !ok {
			m.logger.Debug("drop byte before bad length field", "head", util.HexBytes(m.rx[:9]))
			m.rx = m.rx[1:]

			continue
		}
		if len(m.rx) < total {
			break
		}

		frame := util.CloneSlice(m.rx[:total], 0)
		m.rx = m.rx[total:]
		if resp := m.handleFrame(frame); resp != nil && !m.mute {
			m.outbox.Enqueue(resp)
		}
	}

	return len(p), nil
}

// Drain starts delivering held responses on a separate goroutine.
func (m *Module) Drain() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.outbox.IsEmpty() {
		return nil
	}

	go m.deliver(m.outbox.DequeueAll(), m.receiver)

	return nil
}

func (m *Module) deliver(out [][]byte, receiver func([]byte)) {
	if receiver == nil {
		return
	}

	if m.cfg.latency > 0 {
		if err := pool.Sleep(m.ctx, m.cfg.latency); err != nil {
			return
		}
	}

	for _, resp := range out {
		size := m.cfg.chunkSize
		if size <= 0 {
			size = len(resp)
		}

		for off := 0; off < len(resp); off += size {
			if m.ctx.Err() != nil {
				return
			}
			receiver(resp[off:min(off+size, len(resp))])
		}
	}
}

// Close stops response delivery. Further Write and Drain calls fail.
func (m *Module) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	m.cancel()

	return nil
}

// handleFrame decodes one command packet and returns the encoded response,
// or nil when the module stays silent.
func (m *Module) handleFrame(frame []byte) []byte {
	if len(frame) < packet.MinPacketSize {
		m.logger.Debug("drop short packet", "frame", util.HexBytes(frame))
		return nil
	}

	ins := packet.Instruction(frame[9])
	payloadLen, known := responsePayload[ins]

	pkt, err := packet.Decode(frame, len(frame), m.address)
	switch {
	case errors.Is(err, packet.ErrAddressMismatch):
		m.logger.Debug("ignore packet for another address", "frame", util.HexBytes(frame))
		return nil
	case err != nil || pkt.Kind != packet.KindCommand || !known:
		m.logger.Debug("reject malformed packet", "frame", util.HexBytes(frame), "error", err)
		if !known {
			payloadLen = 0
		}

		return m.reply(packet.CodePacketError, make([]byte, payloadLen))
	}

	m.commands = append(m.commands, ins)

	var (
		code    packet.ConfirmationCode
		payload []byte
	)
	if injected, ok := m.dequeueFailure(ins); ok {
		code = injected
	} else {
		code, payload = m.execute(ins, pkt.Payload)
	}

	if len(payload) != payloadLen {
		fixed := make([]byte, payloadLen)
		copy(fixed, payload)
		payload = fixed
	}

	m.logger.Debug("executed command", "instruction", ins.String(), "code", code.String())

	return m.reply(code, payload)
}

func (m *Module) reply(code packet.ConfirmationCode, payload []byte) []byte {
	return packet.NewAck(m.address, code, payload).Pack()
}

// PresentFingers queues fingers for the following captures. Each capture
// consumes one entry; NoFinger entries and an empty queue read as an empty
// sensor.
func (m *Module) PresentFingers(fingers ...Finger) {
	m.mu.Lock()
	m.fingers.Enqueue(fingers...)
	m.mu.Unlock()
}

// FailNext makes the next execution of ins answer with code and a zeroed
// payload without touching the model. Repeated calls queue further failures.
func (m *Module) FailNext(ins packet.Instruction, code packet.ConfirmationCode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.failures[ins]
	if !ok {
		q = queue.New[packet.ConfirmationCode](1)
		m.failures[ins] = q
	}
	q.Enqueue(code)
}

func (m *Module) dequeueFailure(ins packet.Instruction) (packet.ConfirmationCode, bool) {
	q, ok := m.failures[ins]
	if !ok {
		return 0, false
	}

	return q.Dequeue()
}

// SetMissAsOK makes searches without a hit answer code 0 with page 0 and
// score 0, as some firmware revisions do.
func (m *Module) SetMissAsOK(enabled bool) {
	m.mu.Lock()
	m.missAsOK = enabled
	m.mu.Unlock()
}

// SetMute drops every response while enabled.
func (m *Module) SetMute(enabled bool) {
	m.mu.Lock()
	m.mute = enabled
	m.mu.Unlock()
}

// Enroll stores f at pos directly, bypassing the protocol.
func (m *Module) Enroll(pos uint16, f Finger) {
	m.library.Store(pos, f)
}

// Template returns the finger stored at pos.
func (m *Module) Template(pos uint16) (Finger, bool) {
	return m.library.Load(pos)
}

// TemplateCount returns the number of stored templates.
func (m *Module) TemplateCount() int {
	return m.library.Size()
}

// Commands returns the instructions executed so far, in order.
func (m *Module) Commands() []packet.Instruction {
	m.mu.Lock()
	defer m.mu.Unlock()

	return util.CloneSlice(m.commands, 0)
}

// Address returns the current module address.
func (m *Module) Address() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.address
}

// Password returns the current module password.
func (m *Module) Password() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.password
}
