package packet

import (
	"encoding/binary"
	"fmt"
)

// Header is the fixed start-of-packet marker.
const Header uint16 = 0xEF01

// DefaultAddress is the broadcast module address used by factory-fresh modules.
const DefaultAddress uint32 = 0xFFFFFFFF

// MaxPayloadSize is the largest payload a single packet may carry.
const MaxPayloadSize = 256

const (
	// headerSize covers header, address, kind and length field (bytes 0-8).
	headerSize = 9
	// codeOffset is the position of the instruction/confirmation byte.
	codeOffset = 9
	// payloadOffset is the position of the first payload byte.
	payloadOffset = 10
	// checksumSize is the size of the trailing checksum in bytes.
	checksumSize = 2
)

// MinPacketSize is the wire size of a packet with an empty payload.
const MinPacketSize = payloadOffset + checksumSize

// FrameSize returns the wire size of a packet from its header bytes 0-8. ok is
// false when fewer than 9 bytes are given or the length field is outside
// [2, MaxPayloadSize+2].
func FrameSize(head []byte) (size int, ok bool) {
	if len(head) < headerSize {
		return 0, false
	}

	length := int(binary.BigEndian.Uint16(head[7:headerSize]))
	if length < checksumSize || length > MaxPayloadSize+checksumSize {
		return 0, false
	}

	return payloadOffset + length, true
}

// Packet is a single protocol packet.
//
// Code holds byte 9: an instruction for command packets and a confirmation
// code for acknowledge packets.
type Packet struct {
	Address uint32
	Kind    Kind
	Code    byte
	Payload []byte
}

// Instruction returns byte 9 read as an instruction.
func (p *Packet) Instruction() Instruction {
	return Instruction(p.Code)
}

// Confirmation returns byte 9 read as a confirmation code.
func (p *Packet) Confirmation() ConfirmationCode {
	return ConfirmationCode(p.Code)
}

// Length returns the value of the length field: len(Payload) + 2.
func (p *Packet) Length() uint16 {
	return uint16(len(p.Payload) + checksumSize) //nolint:gosec // bounded by MaxPayloadSize
}

// WireSize returns the total number of bytes Pack produces.
func (p *Packet) WireSize() int {
	return MinPacketSize + len(p.Payload)
}

// Checksum computes the 16-bit sum of kind, both length bytes, byte 9 and
// every payload byte, truncated to 16 bits.
func (p *Packet) Checksum() uint16 {
	length := p.Length()

	sum := uint32(p.Kind) + uint32(length>>8) + uint32(length&0xFF) + uint32(p.Code)
	for _, v := range p.Payload {
		sum += uint32(v)
	}

	return uint16(sum & 0xFFFF) //nolint:gosec // intentional truncation
}

// Pack serializes the packet to its wire format.
func (p *Packet) Pack() []byte {
	buf := make([]byte, p.WireSize())

	binary.BigEndian.PutUint16(buf[0:2], Header)
	binary.BigEndian.PutUint32(buf[2:6], p.Address)
	buf[6] = byte(p.Kind)
	binary.BigEndian.PutUint16(buf[7:9], p.Length())
	buf[codeOffset] = p.Code
	copy(buf[payloadOffset:], p.Payload)
	binary.BigEndian.PutUint16(buf[len(buf)-checksumSize:], p.Checksum())

	return buf
}

// NewCommand builds a command packet for ins addressed to addr. parts are
// concatenated in order to form the payload.
//
// The instruction is checked against the registry before anything is built.
func NewCommand(addr uint32, ins Instruction, parts ...[]byte) (*Packet, error) {
	return newPacket(addr, KindCommand, ins, parts)
}

// Encode builds the wire bytes of a packet of the given kind.
//
// It fails with ErrInvalidIdentifier or ErrInvalidInstruction when kind or
// ins is outside the registry; both are checked before any byte is built.
func Encode(addr uint32, kind Kind, ins Instruction, parts ...[]byte) ([]byte, error) {
	p, err := newPacket(addr, kind, ins, parts)
	if err != nil {
		return nil, err
	}

	return p.Pack(), nil
}

func newPacket(addr uint32, kind Kind, ins Instruction, parts [][]byte) (*Packet, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: 0x%02X", ErrInvalidIdentifier, byte(kind))
	}
	if !ins.IsValid() {
		return nil, fmt.Errorf("%w: 0x%02X", ErrInvalidInstruction, byte(ins))
	}

	size := 0
	for _, part := range parts {
		size += len(part)
	}
	if size > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrPayloadTooLarge, size, MaxPayloadSize)
	}

	payload := make([]byte, 0, size)
	for _, part := range parts {
		payload = append(payload, part...)
	}

	return &Packet{Address: addr, Kind: kind, Code: byte(ins), Payload: payload}, nil
}

// NewAck builds an acknowledge packet carrying code and payload.
func NewAck(addr uint32, code ConfirmationCode, payload []byte) *Packet {
	p := &Packet{Address: addr, Kind: KindAck, Code: byte(code)}
	if len(payload) > 0 {
		p.Payload = make([]byte, len(payload))
		copy(p.Payload, payload)
	}

	return p
}

// Decode parses and validates a complete packet.
//
// expectedLen is the total packet size the caller expects; addr is the module
// address the packet must carry. Checks run in this order: total size,
// checksum, header, address, kind, then the length field against the payload.
// The checksum is verified before any field is interpreted, so corruption in
// the checksummed region is always reported as ErrChecksumMismatch.
func Decode(buf []byte, expectedLen int, addr uint32) (*Packet, error) {
	if len(buf) != expectedLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrLengthMismatch, len(buf), expectedLen)
	}
	if len(buf) < MinPacketSize {
		return nil, fmt.Errorf("%w: got %d bytes, minimum is %d", ErrLengthMismatch, len(buf), MinPacketSize)
	}

	end := len(buf) - checksumSize

	var sum uint32
	for _, v := range buf[6:end] {
		sum += uint32(v)
	}
	calcChecksum := uint16(sum & 0xFFFF) //nolint:gosec // intentional truncation
	wireChecksum := binary.BigEndian.Uint16(buf[end:])
	if wireChecksum != calcChecksum {
		return nil, fmt.Errorf("%w: wire=0x%04X, computed=0x%04X", ErrChecksumMismatch, wireChecksum, calcChecksum)
	}

	if h := binary.BigEndian.Uint16(buf[0:2]); h != Header {
		return nil, fmt.Errorf("%w: got 0x%04X, want 0x%04X", ErrInvalidHeader, h, Header)
	}

	wireAddr := binary.BigEndian.Uint32(buf[2:6])
	if wireAddr != addr {
		return nil, fmt.Errorf("%w: got 0x%08X, want 0x%08X", ErrAddressMismatch, wireAddr, addr)
	}

	kind := Kind(buf[6])
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: 0x%02X", ErrInvalidIdentifier, byte(kind))
	}

	payloadLen := end - payloadOffset
	if length := binary.BigEndian.Uint16(buf[7:headerSize]); int(length) != payloadLen+checksumSize {
		return nil, fmt.Errorf("%w: length field %d, payload %d bytes", ErrLengthMismatch, length, payloadLen)
	}

	p := &Packet{Address: wireAddr, Kind: kind, Code: buf[codeOffset]}
	if payloadLen > 0 {
		p.Payload = make([]byte, payloadLen)
		copy(p.Payload, buf[payloadOffset:end])
	}

	return p, nil
}

// Byte returns a single-byte payload part.
func Byte(v byte) []byte {
	return []byte{v}
}

// Uint16 returns v as a big-endian payload part.
func Uint16(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

// Uint32 returns v as a big-endian payload part.
func Uint32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}
