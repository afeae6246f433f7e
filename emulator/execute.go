package emulator

import (
	"encoding/binary"
	"math/rand"

	"github.com/arloliu/go-fpsensor/packet"
)

const (
	matchScore     = 0x00C8
	indexPageSlots = 256
	notepadPages   = 16
	notepadSize    = 32
)

// responsePayload is the payload size of each instruction's acknowledge packet.
var responsePayload = map[packet.Instruction]int{
	packet.InstructionGenerateImage:     0,
	packet.InstructionGenerateCharacter: 0,
	packet.InstructionMatch:             2,
	packet.InstructionSearch:            4,
	packet.InstructionGenerateTemplate:  0,
	packet.InstructionStoreTemplate:     0,
	packet.InstructionReadTemplate:      0,
	packet.InstructionUploadTemplate:    0,
	packet.InstructionDownloadTemplate:  0,
	packet.InstructionUploadImage:       0,
	packet.InstructionDownloadImage:     0,
	packet.InstructionDeleteTemplate:    0,
	packet.InstructionEmptyLibrary:      0,
	packet.InstructionSetSystemParam:    0,
	packet.InstructionReadSystemParams:  16,
	packet.InstructionSetPassword:       0,
	packet.InstructionVerifyPassword:    0,
	packet.InstructionGetRandomCode:     4,
	packet.InstructionSetModuleAddress:  0,
	packet.InstructionPortControl:       0,
	packet.InstructionWriteNotepad:      0,
	packet.InstructionReadNotepad:       32,
	packet.InstructionTemplateCount:     2,
	packet.InstructionReadIndexTable:    32,
	packet.InstructionAutoSearch:        4,
	packet.InstructionIdentify:          4,
}

// execute runs ins against the model. m.mu is held.
func (m *Module) execute(ins packet.Instruction, args []byte) (packet.ConfirmationCode, []byte) {
	switch ins {
	case packet.InstructionPortControl:
		if len(args) != 1 || args[0] > 1 {
			return packet.CodeCommunicationPortFail, nil
		}
		return packet.CodeOK, nil

	case packet.InstructionVerifyPassword:
		if len(args) != 4 {
			return packet.CodePacketError, nil
		}
		if binary.BigEndian.Uint32(args) != m.password {
			return packet.CodeWrongPassword, nil
		}
		return packet.CodeOK, nil

	case packet.InstructionSetPassword:
		if len(args) != 4 {
			return packet.CodePacketError, nil
		}
		m.password = binary.BigEndian.Uint32(args)
		return packet.CodeOK, nil

	case packet.InstructionSetModuleAddress:
		if len(args) != 4 {
			return packet.CodePacketError, nil
		}
		// the acknowledge already carries the new address
		m.address = binary.BigEndian.Uint32(args)
		return packet.CodeOK, nil

	case packet.InstructionSetSystemParam:
		return m.setSystemParameter(args)

	case packet.InstructionReadSystemParams:
		out := make([]byte, 16)
		binary.BigEndian.PutUint16(out[2:4], SystemID)
		binary.BigEndian.PutUint16(out[4:6], m.cfg.capacity)
		binary.BigEndian.PutUint16(out[6:8], m.securityLevel)
		binary.BigEndian.PutUint32(out[8:12], m.address)
		binary.BigEndian.PutUint16(out[12:14], m.packetSizeCode)
		binary.BigEndian.PutUint16(out[14:16], m.baudDivisor)
		return packet.CodeOK, out

	case packet.InstructionTemplateCount:
		return packet.CodeOK, packet.Uint16(uint16(m.library.Size()))

	case packet.InstructionReadIndexTable:
		if len(args) != 1 || args[0] > 3 {
			return packet.CodePacketError, nil
		}
		return packet.CodeOK, m.indexPage(int(args[0]))

	case packet.InstructionGenerateImage:
		f := m.capture()
		if f == NoFinger {
			return packet.CodeNoFinger, nil
		}
		m.image = f
		return packet.CodeOK, nil

	case packet.InstructionUploadImage, packet.InstructionDownloadImage:
		return packet.CodeOK, nil

	case packet.InstructionGenerateCharacter:
		buf, ok := bufferArg(args)
		if !ok {
			return packet.CodePacketError, nil
		}
		if m.image == NoFinger {
			return packet.CodeInvalidImage, nil
		}
		m.buffers[buf] = m.image
		return packet.CodeOK, nil

	case packet.InstructionGenerateTemplate:
		if m.buffers[1] == NoFinger || m.buffers[1] != m.buffers[2] {
			return packet.CodeEnrollMismatch, nil
		}
		return packet.CodeOK, nil

	case packet.InstructionUploadTemplate, packet.InstructionDownloadTemplate:
		if _, ok := bufferArg(args); !ok {
			return packet.CodePacketError, nil
		}
		return packet.CodeOK, nil

	case packet.InstructionMatch:
		if m.buffers[1] == NoFinger || m.buffers[1] != m.buffers[2] {
			return packet.CodeNoMatch, packet.Uint16(0)
		}
		return packet.CodeOK, packet.Uint16(matchScore)

	case packet.InstructionStoreTemplate:
		return m.storeTemplate(args)

	case packet.InstructionReadTemplate:
		return m.readTemplate(args)

	case packet.InstructionDeleteTemplate:
		if len(args) != 4 {
			return packet.CodePacketError, nil
		}
		start := int(binary.BigEndian.Uint16(args[0:2]))
		count := int(binary.BigEndian.Uint16(args[2:4]))
		if count == 0 || start+count > int(m.cfg.capacity) {
			return packet.CodeDeleteFail, nil
		}
		for pos := start; pos < start+count; pos++ {
			m.library.Delete(uint16(pos))
		}
		return packet.CodeOK, nil

	case packet.InstructionEmptyLibrary:
		m.library.Clear()
		return packet.CodeOK, nil

	case packet.InstructionSearch:
		buf, ok := bufferArg(args)
		if !ok || len(args) != 5 {
			return packet.CodePacketError, nil
		}
		start := binary.BigEndian.Uint16(args[1:3])
		count := binary.BigEndian.Uint16(args[3:5])
		return m.search(m.buffers[buf], start, count)

	case packet.InstructionAutoSearch:
		if len(args) != 5 {
			return packet.CodePacketError, nil
		}
		f := m.capture()
		if f == NoFinger {
			return packet.CodeNoFinger, nil
		}
		m.image, m.buffers[1] = f, f
		return m.search(f, binary.BigEndian.Uint16(args[1:3]), binary.BigEndian.Uint16(args[3:5]))

	case packet.InstructionIdentify:
		f := m.capture()
		if f == NoFinger {
			return packet.CodeNoFinger, nil
		}
		m.image, m.buffers[1] = f, f
		return m.search(f, 0, m.cfg.capacity)

	case packet.InstructionGetRandomCode:
		return packet.CodeOK, packet.Uint32(rand.Uint32()) //nolint:gosec // emulated hardware RNG

	case packet.InstructionWriteNotepad:
		if len(args) != 1+notepadSize || args[0] >= notepadPages {
			return packet.CodePacketError, nil
		}
		data := make([]byte, notepadSize)
		copy(data, args[1:])
		m.notepad.Store(args[0], data)
		return packet.CodeOK, nil

	case packet.InstructionReadNotepad:
		if len(args) != 1 || args[0] >= notepadPages {
			return packet.CodePacketError, nil
		}
		data, ok := m.notepad.Load(args[0])
		if !ok {
			return packet.CodeOK, make([]byte, notepadSize)
		}
		return packet.CodeOK, data

	default:
		return packet.CodePacketError, nil
	}
}

// capture consumes the next presented finger.
func (m *Module) capture() Finger {
	f, _ := m.fingers.Dequeue()
	return f
}

func bufferArg(args []byte) (int, bool) {
	if len(args) == 0 || (args[0] != 1 && args[0] != 2) {
		return 0, false
	}

	return int(args[0]), true
}

func (m *Module) setSystemParameter(args []byte) (packet.ConfirmationCode, []byte) {
	if len(args) != 2 {
		return packet.CodePacketError, nil
	}

	value := uint16(args[1])
	switch args[0] {
	case 4:
		m.baudDivisor = value
	case 5:
		m.securityLevel = value
	case 6:
		m.packetSizeCode = value
	default:
		return packet.CodeInvalidRegister, nil
	}

	return packet.CodeOK, nil
}

func (m *Module) storeTemplate(args []byte) (packet.ConfirmationCode, []byte) {
	buf, ok := bufferArg(args)
	if !ok || len(args) != 3 {
		return packet.CodePacketError, nil
	}

	pos := binary.BigEndian.Uint16(args[1:3])
	if pos >= m.cfg.capacity {
		return packet.CodeBadLocation, nil
	}
	if m.buffers[buf] == NoFinger {
		return packet.CodeFlashError, nil
	}
	m.library.Store(pos, m.buffers[buf])

	return packet.CodeOK, nil
}

func (m *Module) readTemplate(args []byte) (packet.ConfirmationCode, []byte) {
	buf, ok := bufferArg(args)
	if !ok || len(args) != 3 {
		return packet.CodePacketError, nil
	}

	pos := binary.BigEndian.Uint16(args[1:3])
	if pos >= m.cfg.capacity {
		return packet.CodeBadLocation, nil
	}
	f, ok := m.library.Load(pos)
	if !ok {
		return packet.CodeReadTemplateFail, nil
	}
	m.buffers[buf] = f

	return packet.CodeOK, nil
}

// search returns the lowest position in [start, start+count) holding f.
func (m *Module) search(f Finger, start, count uint16) (packet.ConfirmationCode, []byte) {
	if f != NoFinger {
		end := min(int(start)+int(count), int(m.cfg.capacity))
		for pos := int(start); pos < end; pos++ {
			if stored, ok := m.library.Load(uint16(pos)); ok && stored == f {
				out := make([]byte, 4)
				binary.BigEndian.PutUint16(out[0:2], uint16(pos))
				binary.BigEndian.PutUint16(out[2:4], matchScore)

				return packet.CodeOK, out
			}
		}
	}

	if m.missAsOK {
		return packet.CodeOK, make([]byte, 4)
	}

	return packet.CodeNotFound, make([]byte, 4)
}

// indexPage renders one page of the occupancy bitmap, LSB first.
func (m *Module) indexPage(page int) []byte {
	out := make([]byte, indexPageSlots/8)
	m.library.Range(func(pos uint16, _ Finger) bool {
		slot := int(pos) - page*indexPageSlots
		if slot >= 0 && slot < indexPageSlots {
			out[slot/8] |= 1 << (slot % 8)
		}
		return true
	})

	return out
}
