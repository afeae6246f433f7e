package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-fpsensor/packet"
)

func TestInterpret(t *testing.T) {
	tests := []struct {
		ins  packet.Instruction
		code packet.ConfirmationCode
		want Status
	}{
		{packet.InstructionGenerateImage, packet.CodeOK, StatusFingerDetected},
		{packet.InstructionGenerateImage, packet.CodeNoFinger, StatusFingerUndetected},
		{packet.InstructionGenerateImage, packet.CodeImageFail, StatusFingerCollectionFailed},
		{packet.InstructionGenerateCharacter, packet.CodeOK, StatusSuccess},
		{packet.InstructionGenerateCharacter, packet.CodeImageDisorderly, StatusImageDisorderly},
		{packet.InstructionGenerateCharacter, packet.CodeFeatureFail, StatusFeatureFail},
		{packet.InstructionGenerateCharacter, packet.CodeInvalidImage, StatusInvalidImage},
		{packet.InstructionMatch, packet.CodeOK, StatusMatched},
		{packet.InstructionMatch, packet.CodeNoMatch, StatusNotMatched},
		{packet.InstructionSearch, packet.CodeOK, StatusSearchFound},
		{packet.InstructionSearch, packet.CodeNotFound, StatusSearchNotFound},
		{packet.InstructionIdentify, packet.CodeNoFinger, StatusFingerUndetected},
		{packet.InstructionGenerateTemplate, packet.CodeEnrollMismatch, StatusCombineFail},
		{packet.InstructionStoreTemplate, packet.CodeBadLocation, StatusAddressBeyondLibrary},
		{packet.InstructionStoreTemplate, packet.CodeFlashError, StatusFlashError},
		{packet.InstructionReadTemplate, packet.CodeReadTemplateFail, StatusReadTemplateFail},
		{packet.InstructionUploadTemplate, packet.CodeOK, StatusTransferReady},
		{packet.InstructionDownloadImage, packet.CodePacketReceiveFail, StatusDataPacketTransferFail},
		{packet.InstructionDeleteTemplate, packet.CodeDeleteFail, StatusDeleteTemplateFail},
		{packet.InstructionEmptyLibrary, packet.CodeEmptyFail, StatusEmptyFail},
		{packet.InstructionVerifyPassword, packet.CodeWrongPassword, StatusWrongPassword},
		{packet.InstructionSetSystemParam, packet.CodeInvalidRegister, StatusWrongRegisterNumber},
		{packet.InstructionPortControl, packet.CodeCommunicationPortFail, StatusCommunicationFail},
		{packet.InstructionTemplateCount, packet.CodePacketError, StatusPacketError},
		// codes an instruction does not document
		{packet.InstructionEmptyLibrary, packet.CodeNoFinger, StatusUnknown},
		{packet.InstructionMatch, packet.CodeNotFound, StatusUnknown},
		{packet.Instruction(0x77), packet.CodeOK, StatusUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Interpret(tt.ins, tt.code), "%s %s", tt.ins, tt.code)
	}
}

func TestInterpret_EveryInstructionHasTable(t *testing.T) {
	for code := 0; code <= 0xFF; code++ {
		ins := packet.Instruction(code)
		if !ins.IsValid() {
			continue
		}
		assert.Equal(t, StatusPacketError, Interpret(ins, packet.CodePacketError), ins.String())
	}
}

func TestStatus_IsSuccess(t *testing.T) {
	for _, s := range []Status{StatusSuccess, StatusFingerDetected, StatusMatched, StatusSearchFound, StatusTransferReady} {
		assert.True(t, s.IsSuccess(), s.String())
	}
	for _, s := range []Status{StatusUnknown, StatusPacketError, StatusFingerUndetected, StatusSearchNotFound, StatusNotMatched} {
		assert.False(t, s.IsSuccess(), s.String())
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "finger undetected", StatusFingerUndetected.String())
	assert.Equal(t, "Status(999)", Status(999).String())
}

func TestResult_Err(t *testing.T) {
	require := require.New(t)

	ok := newResult(packet.InstructionEmptyLibrary, packet.CodeOK)
	require.True(ok.OK())
	require.NoError(ok.Err())

	failed := newResult(packet.InstructionEmptyLibrary, packet.CodeEmptyFail)
	require.False(failed.OK())

	de, found := AsDeviceError(failed.Err())
	require.True(found)
	require.Equal(packet.InstructionEmptyLibrary, de.Instruction)
	require.Equal(packet.CodeEmptyFail, de.Code)
	require.Equal(StatusEmptyFail, de.Status)
	require.Equal("device: EmptyLibrary: empty library failed (code 0x11)", de.Error())

	_, found = AsDeviceError(ErrInvalidPosition)
	require.False(found)
}
