package packet

import "errors"

// Protocol errors. Decode and Encode wrap these with details; match them with
// errors.Is.
var (
	ErrInvalidIdentifier  = errors.New("packet: invalid packet identifier")
	ErrInvalidInstruction = errors.New("packet: invalid instruction code")
	ErrChecksumMismatch   = errors.New("packet: checksum mismatch")
	ErrLengthMismatch     = errors.New("packet: length mismatch")
	ErrInvalidHeader      = errors.New("packet: invalid header")
	ErrAddressMismatch    = errors.New("packet: module address mismatch")
	ErrPayloadTooLarge    = errors.New("packet: payload too large")
)

var protocolErrors = []error{
	ErrInvalidIdentifier,
	ErrInvalidInstruction,
	ErrChecksumMismatch,
	ErrLengthMismatch,
	ErrInvalidHeader,
	ErrAddressMismatch,
	ErrPayloadTooLarge,
}

// IsProtocolError reports whether err wraps one of the packet protocol errors.
func IsProtocolError(err error) bool {
	if err == nil {
		return false
	}

	for _, target := range protocolErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
