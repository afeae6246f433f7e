// Package packet implements the framing used by R30x-family fingerprint
// modules on their serial link.
//
// Every packet, in either direction, has the same layout:
//
//	0-1    header              0xEF01, big-endian
//	2-5    module address      default 0xFFFFFFFF
//	6      kind                0x01 command / 0x02 data / 0x07 ack / 0x08 end
//	7-8    length              payload bytes + 2, big-endian
//	9      instruction/status  outbound instruction, inbound confirmation code
//	10..   payload
//	last 2 checksum            big-endian
//
// The checksum is the arithmetic sum of bytes 6 up to the checksum itself,
// truncated to 16 bits.
//
// Byte 9 is position-overloaded: a command packet carries an [Instruction],
// an acknowledge packet carries a [ConfirmationCode]. The meaning of a
// confirmation code depends on the instruction that produced it, so this
// package only names the raw values; interpreting them is left to the
// device package.
package packet
