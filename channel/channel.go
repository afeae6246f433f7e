package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/go-fpsensor/internal/pool"
	"github.com/arloliu/go-fpsensor/internal/util"
	"github.com/arloliu/go-fpsensor/logger"
	"github.com/arloliu/go-fpsensor/packet"
)

// Sentinel errors of the command channel.
var (
	ErrBusy           = errors.New("channel: a command is already pending")
	ErrClosed         = errors.New("channel: closed")
	ErrCommandTimeout = errors.New("channel: command timeout")
	ErrCancelled      = errors.New("channel: command cancelled")
	ErrTransport      = errors.New("channel: transport failure")
	ErrInvalidRequest = errors.New("channel: invalid request")
)

// Request describes one command exchange.
type Request struct {
	// Instruction is used for logging only; the packet bytes are authoritative.
	Instruction packet.Instruction
	// Packet is the encoded command packet.
	Packet []byte
	// ResponseLen is the protocol-mandated total size of the response packet.
	ResponseLen int
	// Address is the module address the response must carry.
	Address uint32
	// Timeout overrides the channel timeout when positive.
	Timeout time.Duration
}

type result struct {
	pkt *packet.Packet
	err error
}

// pending is the single in-flight request.
type pending struct {
	req   Request
	done  chan result
	armed bool
}

// Channel owns the in-flight request and receive accumulator of one
// transport. It is safe to call from multiple goroutines, but only one Send
// may be outstanding at a time.
type Channel struct {
	transport Transport
	cfg       *Config
	logger    logger.Logger

	mu      sync.Mutex
	buf     []byte
	pending *pending
	closed  bool

	metrics Metrics
}

// New creates a Channel on t and registers itself as t's receiver.
func New(t Transport, opts ...Option) (*Channel, error) {
	if t == nil {
		return nil, errors.New("channel: transport is nil")
	}

	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	c := &Channel{
		transport: t,
		cfg:       cfg,
		logger:    cfg.logger,
		buf:       make([]byte, 0, 64),
	}
	t.SetReceiver(c.OnBytes)

	return c, nil
}

// GetMetrics returns the metrics of the channel.
func (c *Channel) GetMetrics() *Metrics {
	return &c.metrics
}

// GetLogger returns the logger of the channel.
func (c *Channel) GetLogger() logger.Logger {
	return c.logger
}

// Pending reports whether a request is currently in flight.
func (c *Channel) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pending != nil
}

// Send writes req.Packet and waits for the response.
//
// The receive path is armed only after the transport reports the packet
// drained. Send returns the decoded response, or ErrBusy, ErrClosed,
// ErrTransport, ErrCommandTimeout, ErrCancelled, or a packet protocol error.
// On timeout and cancellation the channel is reset to idle.
func (c *Channel) Send(ctx context.Context, req Request) (*packet.Packet, error) {
	if len(req.Packet) == 0 || req.ResponseLen < packet.MinPacketSize {
		return nil, fmt.Errorf("%w: packet %d bytes, response length %d", ErrInvalidRequest, len(req.Packet), req.ResponseLen)
	}

	if err := ctx.Err(); err != nil {
		c.metrics.incCancelCount()
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	p, err := c.register(req)
	if err != nil {
		return nil, err
	}

	c.metrics.incCommandCount()
	c.logger.Debug("channel: send command",
		"instruction", req.Instruction.String(),
		"responseLen", req.ResponseLen,
		"packet", util.HexBytes(req.Packet),
	)

	if err := c.writeAll(req.Packet); err != nil {
		c.abort(p)
		c.metrics.incErrorCount()
		c.logger.Error("channel: write failed", "instruction", req.Instruction.String(), "error", err)

		return nil, fmt.Errorf("%w: write: %w", ErrTransport, err)
	}

	if err := c.drainAndArm(p); err != nil {
		c.abort(p)
		c.metrics.incErrorCount()
		c.logger.Error("channel: drain failed", "instruction", req.Instruction.String(), "error", err)

		return nil, fmt.Errorf("%w: drain: %w", ErrTransport, err)
	}

	timeout := c.cfg.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	timer := pool.GetTimer(timeout)
	defer pool.PutTimer(timer)

	select {
	case res := <-p.done:
		if res.err != nil {
			c.metrics.incErrorCount()
			c.logger.Debug("channel: response rejected", "instruction", req.Instruction.String(), "error", res.err)

			return nil, res.err
		}

		c.metrics.incResponseCount()

		return res.pkt, nil

	case <-ctx.Done():
		c.abort(p)
		c.metrics.incCancelCount()

		return nil, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())

	case <-timer.C:
		c.abort(p)
		c.metrics.incTimeoutCount()
		c.logger.Warn("channel: command timeout",
			"instruction", req.Instruction.String(),
			"timeout", timeout,
		)

		return nil, fmt.Errorf("%w: %s after %v", ErrCommandTimeout, req.Instruction, timeout)
	}
}

// OnBytes appends chunk to the receive accumulator and completes the pending
// request once the expected number of bytes is buffered.
//
// It is registered as the transport receiver by New and may also be called
// directly by transports that deliver bytes synchronously.
func (c *Channel) OnBytes(chunk []byte) {
	if len(chunk) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.addBytesReceived(len(chunk))

	p := c.pending
	if p == nil || !p.armed {
		c.metrics.addDroppedBytes(len(chunk))
		c.logger.Debug("channel: dropping bytes with no armed request", "bytes", util.HexBytes(chunk))

		return
	}

	c.buf = append(c.buf, chunk...)
	if len(c.buf) < p.req.ResponseLen {
		c.logger.Debug("channel: fragment", "received", len(c.buf), "expected", p.req.ResponseLen)
		return
	}

	c.logger.Debug("channel: response complete",
		"instruction", p.req.Instruction.String(),
		"packet", util.HexBytes(c.buf),
	)

	pkt, err := packet.Decode(c.buf, p.req.ResponseLen, p.req.Address)

	c.pending = nil
	c.buf = c.buf[:0]

	p.done <- result{pkt: pkt, err: err}
}

// Close fails any pending request with ErrClosed and closes the transport.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	if p := c.pending; p != nil {
		c.pending = nil
		c.buf = c.buf[:0]
		p.done <- result{err: ErrClosed}
	}
	c.mu.Unlock()

	return c.transport.Close()
}

// register installs req as the pending request after clearing the
// accumulator. The request starts unarmed.
func (c *Channel) register(req Request) (*pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if c.pending != nil {
		return nil, ErrBusy
	}

	c.buf = c.buf[:0]
	p := &pending{req: req, done: make(chan result, 1)}
	c.pending = p

	return p, nil
}

// drainAndArm waits for the transport to drain while holding the lock, so a
// receiver callback racing with the drain is processed after arming.
func (c *Channel) drainAndArm(p *pending) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transport.Drain(); err != nil {
		return err
	}

	if c.pending == p {
		c.buf = c.buf[:0]
		p.armed = true
	}

	return nil
}

// abort clears p if it is still the pending request.
func (c *Channel) abort(p *pending) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == p {
		c.pending = nil
		c.buf = c.buf[:0]
	}
}

// writeAll writes all bytes in data to the transport.
func (c *Channel) writeAll(data []byte) error {
	for written := 0; written < len(data); {
		n, err := c.transport.Write(data[written:])
		written += n
		c.metrics.addBytesSent(n)

		if err != nil {
			return err
		}
		if n == 0 {
			return errors.New("short write")
		}
	}

	return nil
}
