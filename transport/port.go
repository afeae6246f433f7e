// Package transport connects the command channel to a fingerprint module on
// a serial line.
package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/goburrow/serial"

	"github.com/arloliu/go-fpsensor/logger"
)

// ErrClosed is returned by Write and Drain on a closed port.
var ErrClosed = errors.New("transport: port closed")

// Port is a serial connection implementing the channel transport contract.
// A reader goroutine delivers received bytes to the registered receiver.
type Port struct {
	path   string
	cfg    *Config
	logger logger.Logger
	rwc    io.ReadWriteCloser
	state  atomicState

	recvMu   sync.RWMutex
	receiver func(chunk []byte)

	writeMu sync.Mutex
	wg      sync.WaitGroup
}

// Open opens the serial device at path with the given baud rate.
func Open(path string, baud int, opts ...Option) (*Port, error) {
	cfg, err := NewConfig(baud, opts...)
	if err != nil {
		return nil, err
	}

	rwc, err := serial.Open(&serial.Config{
		Address:  path,
		BaudRate: cfg.baud,
		DataBits: cfg.dataBits,
		StopBits: cfg.stopBits,
		Parity:   cfg.parity,
		Timeout:  cfg.readTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", path, err)
	}

	return newPort(path, rwc, cfg), nil
}

// newPort starts the reader on an already opened stream.
func newPort(path string, rwc io.ReadWriteCloser, cfg *Config) *Port {
	p := &Port{
		path:   path,
		cfg:    cfg,
		logger: cfg.logger.With("port", path),
		rwc:    rwc,
	}
	p.state.toOpened()

	p.wg.Add(1)
	go p.readLoop()

	p.logger.Info("serial port opened", "baud", cfg.baud)

	return p
}

// SetReceiver registers the callback for received bytes.
func (p *Port) SetReceiver(fn func(chunk []byte)) {
	p.recvMu.Lock()
	p.receiver = fn
	p.recvMu.Unlock()
}

// Write sends b to the module.
func (p *Port) Write(b []byte) (int, error) {
	if !p.state.isOpened() {
		return 0, ErrClosed
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	return p.rwc.Write(b)
}

// Drain reports whether previously written bytes left the host. Writes to the
// serial device block until the driver accepted them, so Drain only checks
// that the port is still open.
//
// The channel arms its receive path after Drain returns. A reply the reader
// goroutine delivers between the end of Write and that point is dropped as
// unsolicited and counted in the channel's DroppedBytes; the command then
// times out.
func (p *Port) Drain() error {
	if !p.state.isOpened() {
		return ErrClosed
	}

	return nil
}

// Close stops the reader and closes the serial device.
func (p *Port) Close() error {
	if !p.state.toClosing() {
		return nil
	}

	err := p.rwc.Close()
	p.wg.Wait()
	p.state.toClosed()

	p.logger.Info("serial port closed")

	return err
}

func (p *Port) readLoop() {
	defer p.wg.Done()

	buf := make([]byte, readBufferSize)
	for {
		n, err := p.rwc.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])

			p.recvMu.RLock()
			fn := p.receiver
			p.recvMu.RUnlock()

			if fn != nil {
				fn(chunk)
			}
		}

		switch {
		case err == nil, errors.Is(err, serial.ErrTimeout):
			if !p.state.isOpened() {
				return
			}
		default:
			if p.state.isOpened() {
				p.logger.Error("serial read failed", "error", err)
			}

			return
		}
	}
}
