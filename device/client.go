package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/go-fpsensor/channel"
	"github.com/arloliu/go-fpsensor/logger"
	"github.com/arloliu/go-fpsensor/packet"
)

// Sender performs one command/response exchange. *channel.Channel implements it.
type Sender interface {
	Send(ctx context.Context, req channel.Request) (*packet.Packet, error)
}

// Session is the client's view of the module state.
type Session struct {
	Address       uint32
	Password      uint32
	Capacity      uint16
	SecurityLevel uint16
	Verified      bool
}

// Client issues typed commands to one fingerprint module.
type Client struct {
	sender Sender
	cfg    *Config
	logger logger.Logger

	// mu serializes commands on the sender.
	mu sync.Mutex

	sessMu  sync.RWMutex
	session Session
}

// New creates a Client sending through s.
func New(s Sender, opts ...Option) (*Client, error) {
	if s == nil {
		return nil, errors.New("device: sender must not be nil")
	}

	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		sender: s,
		cfg:    cfg,
		logger: cfg.GetLogger(),
		session: Session{
			Address:  cfg.Address(),
			Password: cfg.Password(),
			Capacity: cfg.Capacity(),
		},
	}, nil
}

// Session returns a snapshot of the session state.
func (c *Client) Session() Session {
	c.sessMu.RLock()
	defer c.sessMu.RUnlock()

	return c.session
}

// GetLogger returns the logger of the client.
func (c *Client) GetLogger() logger.Logger {
	return c.logger
}

func (c *Client) updateSession(fn func(s *Session)) {
	c.sessMu.Lock()
	fn(&c.session)
	c.sessMu.Unlock()
}

// command describes one exchange.
type command struct {
	ins     packet.Instruction
	respLen int
	parts   [][]byte
	timeout time.Duration
	// respAddr overrides the address expected in the response.
	respAddr *uint32
}

// exec sends cmd and returns the decoded response with its interpreted result.
func (c *Client) exec(ctx context.Context, cmd command) (*packet.Packet, Result, error) {
	addr := c.Session().Address

	raw, err := packet.Encode(addr, packet.KindCommand, cmd.ins, cmd.parts...)
	if err != nil {
		return nil, Result{}, err
	}

	expect := addr
	if cmd.respAddr != nil {
		expect = *cmd.respAddr
	}

	c.mu.Lock()
	resp, err := c.sender.Send(ctx, channel.Request{
		Instruction: cmd.ins,
		Packet:      raw,
		ResponseLen: cmd.respLen,
		Address:     expect,
		Timeout:     cmd.timeout,
	})
	c.mu.Unlock()

	if err != nil {
		c.logger.Debug("device command failed", "instruction", cmd.ins.String(), "error", err)
		return nil, Result{}, fmt.Errorf("device: %s: %w", cmd.ins, err)
	}

	res := newResult(cmd.ins, resp.Confirmation())
	c.logger.Debug("device command complete",
		"instruction", cmd.ins.String(),
		"code", res.Code.String(),
		"status", res.Status.String(),
	)

	return resp, res, nil
}

// simple runs a command whose response carries no payload.
func (c *Client) simple(ctx context.Context, ins packet.Instruction, parts ...[]byte) (Result, error) {
	_, res, err := c.exec(ctx, command{ins: ins, respLen: ackLen, parts: parts})
	return res, err
}

// capacity returns the library capacity, reading the system parameters on
// first use.
func (c *Client) capacity(ctx context.Context) (uint16, error) {
	if n := c.Session().Capacity; n > 0 {
		return n, nil
	}

	params, err := c.ReadSystemParameters(ctx)
	if err != nil {
		return 0, err
	}
	if err := params.Err(); err != nil {
		return 0, fmt.Errorf("device: learn library capacity: %w", err)
	}
	if params.LibrarySize == 0 {
		return 0, errors.New("device: module reports an empty library capacity")
	}

	return params.LibrarySize, nil
}
