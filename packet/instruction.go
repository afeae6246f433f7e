package packet

import "fmt"

// Instruction is the command code carried at byte 9 of a command packet.
type Instruction byte

const (
	InstructionGenerateImage     Instruction = 0x01
	InstructionGenerateCharacter Instruction = 0x02
	InstructionMatch             Instruction = 0x03
	InstructionSearch            Instruction = 0x04
	InstructionGenerateTemplate  Instruction = 0x05
	InstructionStoreTemplate     Instruction = 0x06
	InstructionReadTemplate      Instruction = 0x07
	InstructionUploadTemplate    Instruction = 0x08
	InstructionDownloadTemplate  Instruction = 0x09
	InstructionUploadImage       Instruction = 0x0A
	InstructionDownloadImage     Instruction = 0x0B
	InstructionDeleteTemplate    Instruction = 0x0C
	InstructionEmptyLibrary      Instruction = 0x0D
	InstructionSetSystemParam    Instruction = 0x0E
	InstructionReadSystemParams  Instruction = 0x0F
	InstructionSetPassword       Instruction = 0x12
	InstructionVerifyPassword    Instruction = 0x13
	InstructionGetRandomCode     Instruction = 0x14
	InstructionSetModuleAddress  Instruction = 0x15
	InstructionPortControl       Instruction = 0x17
	InstructionWriteNotepad      Instruction = 0x18
	InstructionReadNotepad       Instruction = 0x19
	InstructionTemplateCount     Instruction = 0x1D
	InstructionReadIndexTable    Instruction = 0x1F
	InstructionAutoSearch        Instruction = 0x32
	InstructionIdentify          Instruction = 0x34
)

var instructionNames = map[Instruction]string{
	InstructionGenerateImage:     "GenerateImage",
	InstructionGenerateCharacter: "GenerateCharacter",
	InstructionMatch:             "Match",
	InstructionSearch:            "Search",
	InstructionGenerateTemplate:  "GenerateTemplate",
	InstructionStoreTemplate:     "StoreTemplate",
	InstructionReadTemplate:      "ReadTemplate",
	InstructionUploadTemplate:    "UploadTemplate",
	InstructionDownloadTemplate:  "DownloadTemplate",
	InstructionUploadImage:       "UploadImage",
	InstructionDownloadImage:     "DownloadImage",
	InstructionDeleteTemplate:    "DeleteTemplate",
	InstructionEmptyLibrary:      "EmptyLibrary",
	InstructionSetSystemParam:    "SetSystemParameter",
	InstructionReadSystemParams:  "ReadSystemParameters",
	InstructionSetPassword:       "SetPassword",
	InstructionVerifyPassword:    "VerifyPassword",
	InstructionGetRandomCode:     "GetRandomCode",
	InstructionSetModuleAddress:  "SetModuleAddress",
	InstructionPortControl:       "PortControl",
	InstructionWriteNotepad:      "WriteNotepad",
	InstructionReadNotepad:       "ReadNotepad",
	InstructionTemplateCount:     "TemplateCount",
	InstructionReadIndexTable:    "ReadIndexTable",
	InstructionAutoSearch:        "AutoSearch",
	InstructionIdentify:          "Identify",
}

// IsValid reports whether ins belongs to the instruction registry.
func (ins Instruction) IsValid() bool {
	_, ok := instructionNames[ins]
	return ok
}

func (ins Instruction) String() string {
	if name, ok := instructionNames[ins]; ok {
		return name
	}

	return fmt.Sprintf("Instruction(0x%02X)", byte(ins))
}
