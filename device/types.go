package device

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/go-fpsensor/packet"
)

// Response sizes mandated by the protocol, header to checksum inclusive.
const (
	ackLen           = packet.MinPacketSize
	templateCountLen = ackLen + 2
	matchLen         = ackLen + 2
	searchLen        = ackLen + 4
	randomCodeLen    = ackLen + 4
	systemParamsLen  = ackLen + 16
	indexTableLen    = ackLen + 32
	notepadLen       = ackLen + 32
)

const (
	// DefaultPassword is the factory password of the module.
	DefaultPassword uint32 = 0xFFFFFFFF

	// IndexPages is the number of index-table pages; each page covers
	// SlotsPerPage library positions.
	IndexPages   = 4
	SlotsPerPage = 256

	NotepadPages    = 16
	NotepadPageSize = 32

	// AutoPosition asks StoreTemplate to use the first free library slot.
	AutoPosition = -1
)

// Parameter is a writable system-parameter register.
type Parameter byte

const (
	ParamBaudRate      Parameter = 4
	ParamSecurityLevel Parameter = 5
	ParamPacketLength  Parameter = 6
)

func (p Parameter) String() string {
	switch p {
	case ParamBaudRate:
		return "BaudRate"
	case ParamSecurityLevel:
		return "SecurityLevel"
	case ParamPacketLength:
		return "PacketLength"
	default:
		return fmt.Sprintf("Parameter(%d)", byte(p))
	}
}

// validate checks value against the documented range of p.
func (p Parameter) validate(value int) error {
	var lo, hi int
	switch p {
	case ParamBaudRate:
		lo, hi = 1, 12
	case ParamSecurityLevel:
		lo, hi = 1, 5
	case ParamPacketLength:
		lo, hi = 0, 3
	default:
		return fmt.Errorf("%w: unknown parameter %d", ErrParameterOutOfRange, byte(p))
	}

	if value < lo || value > hi {
		return fmt.Errorf("%w: %s=%d not in [%d, %d]", ErrParameterOutOfRange, p, value, lo, hi)
	}

	return nil
}

// ControlCode switches the communication port.
type ControlCode byte

const (
	ControlOff ControlCode = 0
	ControlOn  ControlCode = 1
)

// CharBuffer selects one of the two character-file buffers.
type CharBuffer byte

const (
	CharBuffer1 CharBuffer = 1
	CharBuffer2 CharBuffer = 2
)

func (b CharBuffer) validate() error {
	if b != CharBuffer1 && b != CharBuffer2 {
		return fmt.Errorf("%w: %d", ErrInvalidCharacterBuffer, byte(b))
	}

	return nil
}

// Range is a span of library positions.
type Range struct {
	Start uint16
	Count uint16
}

func be16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }

func be32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
