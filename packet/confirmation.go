package packet

import "fmt"

// ConfirmationCode is the status byte at position 9 of an acknowledge packet.
//
// Several values are shared between instructions with different meanings:
// 0x00 is "success" for most commands, "finger detected" for GenerateImage and
// "found" for the search family. Use the device package to interpret a code
// together with the instruction that produced it.
type ConfirmationCode byte

// Raw confirmation values as documented for the module.
const (
	CodeOK                    ConfirmationCode = 0x00
	CodePacketError           ConfirmationCode = 0x01
	CodeNoFinger              ConfirmationCode = 0x02
	CodeImageFail             ConfirmationCode = 0x03
	CodeImageDisorderly       ConfirmationCode = 0x06
	CodeFeatureFail           ConfirmationCode = 0x07
	CodeNoMatch               ConfirmationCode = 0x08
	CodeNotFound              ConfirmationCode = 0x09
	CodeEnrollMismatch        ConfirmationCode = 0x0A
	CodeBadLocation           ConfirmationCode = 0x0B
	CodeReadTemplateFail      ConfirmationCode = 0x0C
	CodeUploadTemplateFail    ConfirmationCode = 0x0D
	CodePacketReceiveFail     ConfirmationCode = 0x0E
	CodeUploadImageFail       ConfirmationCode = 0x0F
	CodeDeleteFail            ConfirmationCode = 0x10
	CodeEmptyFail             ConfirmationCode = 0x11
	CodeWrongPassword         ConfirmationCode = 0x13
	CodeInvalidImage          ConfirmationCode = 0x15
	CodeFlashError            ConfirmationCode = 0x18
	CodeInvalidRegister       ConfirmationCode = 0x1A
	CodeCommunicationPortFail ConfirmationCode = 0x1D
)

func (c ConfirmationCode) String() string {
	return fmt.Sprintf("0x%02X", byte(c))
}
