package device

import (
	"context"
	"fmt"

	"github.com/arloliu/go-fpsensor/packet"
)

// Handshake checks that the module answers on the configured address.
func (c *Client) Handshake(ctx context.Context) (Result, error) {
	return c.simple(ctx, packet.InstructionPortControl, packet.Byte(byte(ControlOff)))
}

// VerifyPassword authenticates the session with pw. Use DefaultPassword for a
// module with the factory setting.
func (c *Client) VerifyPassword(ctx context.Context, pw uint32) (Result, error) {
	res, err := c.simple(ctx, packet.InstructionVerifyPassword, packet.Uint32(pw))
	if err != nil {
		return res, err
	}

	if res.OK() {
		c.updateSession(func(s *Session) {
			s.Password = pw
			s.Verified = true
		})
	}

	return res, nil
}

// Login verifies the password held by the session.
func (c *Client) Login(ctx context.Context) (Result, error) {
	return c.VerifyPassword(ctx, c.Session().Password)
}

// SetPassword changes the module password.
func (c *Client) SetPassword(ctx context.Context, pw uint32) (Result, error) {
	res, err := c.simple(ctx, packet.InstructionSetPassword, packet.Uint32(pw))
	if err != nil {
		return res, err
	}

	if res.OK() {
		c.updateSession(func(s *Session) { s.Password = pw })
	}

	return res, nil
}

// SetModuleAddress changes the module address. The module answers from the
// new address, and on success the session switches to it.
func (c *Client) SetModuleAddress(ctx context.Context, addr uint32) (Result, error) {
	_, res, err := c.exec(ctx, command{
		ins:      packet.InstructionSetModuleAddress,
		respLen:  ackLen,
		parts:    [][]byte{packet.Uint32(addr)},
		respAddr: &addr,
	})
	if err != nil {
		return res, err
	}

	if res.OK() {
		c.updateSession(func(s *Session) { s.Address = addr })
	}

	return res, nil
}

// SetSystemParameter writes one system-parameter register.
func (c *Client) SetSystemParameter(ctx context.Context, param Parameter, value int) (Result, error) {
	if err := param.validate(value); err != nil {
		return Result{}, err
	}

	res, err := c.simple(ctx, packet.InstructionSetSystemParam, packet.Byte(byte(param)), packet.Byte(byte(value)))
	if err != nil {
		return res, err
	}

	if res.OK() && param == ParamSecurityLevel {
		c.updateSession(func(s *Session) { s.SecurityLevel = uint16(value) })
	}

	return res, nil
}

// PortControl switches the communication port on or off.
func (c *Client) PortControl(ctx context.Context, code ControlCode) (Result, error) {
	if code != ControlOff && code != ControlOn {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidControlCode, byte(code))
	}

	return c.simple(ctx, packet.InstructionPortControl, packet.Byte(byte(code)))
}

// ReadSystemParameters reads the module's basic parameters and records the
// library capacity and security level in the session.
func (c *Client) ReadSystemParameters(ctx context.Context) (*SystemParameters, error) {
	resp, res, err := c.exec(ctx, command{ins: packet.InstructionReadSystemParams, respLen: systemParamsLen})
	if err != nil {
		return nil, err
	}

	params := parseSystemParameters(res, resp.Payload)
	if params.OK() {
		c.updateSession(func(s *Session) {
			s.Capacity = params.LibrarySize
			s.SecurityLevel = params.SecurityLevel
		})
	}

	return params, nil
}

// GetRandomCode asks the module for a random number.
func (c *Client) GetRandomCode(ctx context.Context) (*RandomCode, error) {
	resp, res, err := c.exec(ctx, command{ins: packet.InstructionGetRandomCode, respLen: randomCodeLen})
	if err != nil {
		return nil, err
	}

	return &RandomCode{Result: res, Value: be32(resp.Payload)}, nil
}

// WriteNotepad stores up to NotepadPageSize bytes on a notepad page. Shorter
// data is padded with zeros.
func (c *Client) WriteNotepad(ctx context.Context, page int, data []byte) (Result, error) {
	if page < 0 || page >= NotepadPages {
		return Result{}, fmt.Errorf("%w: notepad page %d not in [0, %d]", ErrParameterOutOfRange, page, NotepadPages-1)
	}
	if len(data) > NotepadPageSize {
		return Result{}, fmt.Errorf("%w: notepad data of %d bytes exceeds %d", ErrParameterOutOfRange, len(data), NotepadPageSize)
	}

	content := make([]byte, NotepadPageSize)
	copy(content, data)

	return c.simple(ctx, packet.InstructionWriteNotepad, packet.Byte(byte(page)), content)
}

// ReadNotepad reads one notepad page.
func (c *Client) ReadNotepad(ctx context.Context, page int) (*Notepad, error) {
	if page < 0 || page >= NotepadPages {
		return nil, fmt.Errorf("%w: notepad page %d not in [0, %d]", ErrParameterOutOfRange, page, NotepadPages-1)
	}

	resp, res, err := c.exec(ctx, command{
		ins:     packet.InstructionReadNotepad,
		respLen: notepadLen,
		parts:   [][]byte{packet.Byte(byte(page))},
	})
	if err != nil {
		return nil, err
	}

	return &Notepad{Result: res, Page: page, Data: resp.Payload}, nil
}
