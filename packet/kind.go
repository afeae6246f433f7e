package packet

import "fmt"

// Kind is the packet identifier at byte 6.
type Kind byte

const (
	KindCommand Kind = 0x01
	KindData    Kind = 0x02
	KindAck     Kind = 0x07
	KindEnd     Kind = 0x08
)

// IsValid reports whether k is one of the known packet kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindCommand, KindData, KindAck, KindEnd:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "Command"
	case KindData:
		return "Data"
	case KindAck:
		return "Ack"
	case KindEnd:
		return "End"
	default:
		return fmt.Sprintf("Kind(0x%02X)", byte(k))
	}
}
