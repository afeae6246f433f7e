package device

import (
	"fmt"

	"github.com/arloliu/go-fpsensor/packet"
)

// Status is the meaning of a confirmation code for a specific instruction.
type Status int

const (
	StatusUnknown Status = iota
	StatusSuccess
	StatusPacketError
	StatusFingerDetected
	StatusFingerUndetected
	StatusFingerCollectionFailed
	StatusImageDisorderly
	StatusFeatureFail
	StatusInvalidImage
	StatusMatched
	StatusNotMatched
	StatusSearchFound
	StatusSearchNotFound
	StatusCombineFail
	StatusAddressBeyondLibrary
	StatusReadTemplateFail
	StatusUploadTemplateFail
	StatusDataPacketTransferFail
	StatusUploadImageFail
	StatusDeleteTemplateFail
	StatusEmptyFail
	StatusWrongPassword
	StatusFlashError
	StatusWrongRegisterNumber
	StatusCommunicationFail
	StatusTransferReady
)

var statusNames = map[Status]string{
	StatusUnknown:                "unknown",
	StatusSuccess:                "success",
	StatusPacketError:            "packet receive error",
	StatusFingerDetected:         "finger detected",
	StatusFingerUndetected:       "finger undetected",
	StatusFingerCollectionFailed: "finger collection failed",
	StatusImageDisorderly:        "image too disorderly",
	StatusFeatureFail:            "too few feature points",
	StatusInvalidImage:           "no valid primary image",
	StatusMatched:                "matched",
	StatusNotMatched:             "not matched",
	StatusSearchFound:            "found",
	StatusSearchNotFound:         "not found",
	StatusCombineFail:            "character files belong to different fingers",
	StatusAddressBeyondLibrary:   "page id beyond library",
	StatusReadTemplateFail:       "read template failed",
	StatusUploadTemplateFail:     "upload template failed",
	StatusDataPacketTransferFail: "data packet transfer failed",
	StatusUploadImageFail:        "upload image failed",
	StatusDeleteTemplateFail:     "delete template failed",
	StatusEmptyFail:              "empty library failed",
	StatusWrongPassword:          "wrong password",
	StatusFlashError:             "flash write error",
	StatusWrongRegisterNumber:    "wrong register number",
	StatusCommunicationFail:      "communication port failure",
	StatusTransferReady:          "ready to transfer",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("Status(%d)", int(s))
}

// IsSuccess reports whether s is the positive outcome of its instruction.
func (s Status) IsSuccess() bool {
	switch s {
	case StatusSuccess, StatusFingerDetected, StatusMatched, StatusSearchFound, StatusTransferReady:
		return true
	default:
		return false
	}
}

type statusTable map[packet.ConfirmationCode]Status

// with returns a copy of the common codes extended by extra.
func with(extra statusTable) statusTable {
	t := statusTable{
		packet.CodeOK:          StatusSuccess,
		packet.CodePacketError: StatusPacketError,
	}
	for code, status := range extra {
		t[code] = status
	}

	return t
}

var searchTable = with(statusTable{
	packet.CodeOK:              StatusSearchFound,
	packet.CodeNoFinger:        StatusFingerUndetected,
	packet.CodeImageDisorderly: StatusImageDisorderly,
	packet.CodeFeatureFail:     StatusFeatureFail,
	packet.CodeNotFound:        StatusSearchNotFound,
})

var statusTables = map[packet.Instruction]statusTable{
	packet.InstructionPortControl:      with(statusTable{packet.CodeCommunicationPortFail: StatusCommunicationFail}),
	packet.InstructionVerifyPassword:   with(statusTable{packet.CodeWrongPassword: StatusWrongPassword}),
	packet.InstructionSetPassword:      with(nil),
	packet.InstructionSetModuleAddress: with(nil),
	packet.InstructionSetSystemParam:   with(statusTable{packet.CodeInvalidRegister: StatusWrongRegisterNumber}),
	packet.InstructionReadSystemParams: with(nil),
	packet.InstructionTemplateCount:    with(nil),
	packet.InstructionReadIndexTable:   with(nil),
	packet.InstructionGetRandomCode:    with(nil),
	packet.InstructionGenerateImage: with(statusTable{
		packet.CodeOK:        StatusFingerDetected,
		packet.CodeNoFinger:  StatusFingerUndetected,
		packet.CodeImageFail: StatusFingerCollectionFailed,
	}),
	packet.InstructionGenerateCharacter: with(statusTable{
		packet.CodeImageDisorderly: StatusImageDisorderly,
		packet.CodeFeatureFail:     StatusFeatureFail,
		packet.CodeInvalidImage:    StatusInvalidImage,
	}),
	packet.InstructionGenerateTemplate: with(statusTable{packet.CodeEnrollMismatch: StatusCombineFail}),
	packet.InstructionMatch: with(statusTable{
		packet.CodeOK:      StatusMatched,
		packet.CodeNoMatch: StatusNotMatched,
	}),
	packet.InstructionSearch:     searchTable,
	packet.InstructionIdentify:   searchTable,
	packet.InstructionAutoSearch: searchTable,
	packet.InstructionUploadTemplate: with(statusTable{
		packet.CodeOK:                 StatusTransferReady,
		packet.CodeUploadTemplateFail: StatusUploadTemplateFail,
	}),
	packet.InstructionDownloadTemplate: with(statusTable{
		packet.CodeOK:                StatusTransferReady,
		packet.CodePacketReceiveFail: StatusDataPacketTransferFail,
	}),
	packet.InstructionUploadImage: with(statusTable{
		packet.CodeOK:              StatusTransferReady,
		packet.CodeUploadImageFail: StatusUploadImageFail,
	}),
	packet.InstructionDownloadImage: with(statusTable{
		packet.CodeOK:                StatusTransferReady,
		packet.CodePacketReceiveFail: StatusDataPacketTransferFail,
	}),
	packet.InstructionStoreTemplate: with(statusTable{
		packet.CodeBadLocation: StatusAddressBeyondLibrary,
		packet.CodeFlashError:  StatusFlashError,
	}),
	packet.InstructionReadTemplate: with(statusTable{
		packet.CodeReadTemplateFail: StatusReadTemplateFail,
		packet.CodeBadLocation:      StatusAddressBeyondLibrary,
	}),
	packet.InstructionDeleteTemplate: with(statusTable{packet.CodeDeleteFail: StatusDeleteTemplateFail}),
	packet.InstructionEmptyLibrary:   with(statusTable{packet.CodeEmptyFail: StatusEmptyFail}),
	packet.InstructionWriteNotepad:   with(statusTable{packet.CodeFlashError: StatusFlashError}),
	packet.InstructionReadNotepad:    with(nil),
}

// Interpret maps a confirmation code to its meaning for ins. Codes the
// instruction does not document map to StatusUnknown.
func Interpret(ins packet.Instruction, code packet.ConfirmationCode) Status {
	if table, ok := statusTables[ins]; ok {
		if status, ok := table[code]; ok {
			return status
		}
	}

	return StatusUnknown
}
