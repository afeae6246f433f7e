package device

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-fpsensor/packet"
)

// Argument validation errors. They are returned before anything is sent.
var (
	ErrParameterOutOfRange    = errors.New("device: parameter out of range")
	ErrInvalidCharacterBuffer = errors.New("device: invalid character buffer")
	ErrInvalidControlCode     = errors.New("device: invalid control code")
	ErrInvalidPosition        = errors.New("device: invalid library position")
	ErrLibraryFull            = errors.New("device: no free library position")
)

// DeviceError is a command the module completed with a non-success
// confirmation code.
type DeviceError struct {
	Instruction packet.Instruction
	Code        packet.ConfirmationCode
	Status      Status
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device: %s: %s (code %s)", e.Instruction, e.Status, e.Code)
}

// AsDeviceError returns the *DeviceError in err's chain, if any.
func AsDeviceError(err error) (*DeviceError, bool) {
	var de *DeviceError
	if errors.As(err, &de) {
		return de, true
	}

	return nil, false
}
