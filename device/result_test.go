package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-fpsensor/packet"
)

func TestDecodeIndex_LSBFirst(t *testing.T) {
	bitmap := make([]byte, 32)
	bitmap[0] = 0x81
	bitmap[1] = 0x02
	bitmap[31] = 0x80

	slots := decodeIndex(bitmap)
	require.Len(t, slots, SlotsPerPage)

	var used []int
	for i, v := range slots {
		if v {
			used = append(used, i)
		}
	}
	assert.Equal(t, []int{0, 7, 9, 255}, used)
}

func TestTemplateIndex_Helpers(t *testing.T) {
	slots := make([]bool, SlotsPerPage)
	slots[0], slots[1], slots[3] = true, true, true
	idx := &TemplateIndex{Page: 1, Slots: slots}

	assert.Equal(t, []uint16{256, 257, 259}, idx.Occupied())

	pos, ok := idx.FirstFree()
	assert.True(t, ok)
	assert.Equal(t, 258, pos)

	grid := idx.Grid()
	lines := strings.Split(strings.TrimSuffix(grid, "\n"), "\n")
	require.Len(t, lines, 16)
	assert.Equal(t, "0256 ##.#............", lines[0])
	assert.Equal(t, "0496 ................", lines[15])

	full := &TemplateIndex{Slots: []bool{true, true}}
	_, ok = full.FirstFree()
	assert.False(t, ok)
}

func TestNewSearchResult(t *testing.T) {
	tests := []struct {
		desc       string
		code       packet.ConfirmationCode
		payload    []byte
		wantFound  bool
		wantStatus Status
	}{
		{"hit", packet.CodeOK, []byte{0x00, 0x2A, 0x00, 0x64}, true, StatusSearchFound},
		{"hit at page zero", packet.CodeOK, []byte{0x00, 0x00, 0x00, 0x64}, true, StatusSearchFound},
		{"zero page and score", packet.CodeOK, []byte{0, 0, 0, 0}, false, StatusSearchNotFound},
		{"not found code", packet.CodeNotFound, []byte{0, 0, 0, 0}, false, StatusSearchNotFound},
		{"packet error", packet.CodePacketError, []byte{0, 0, 0, 0}, false, StatusPacketError},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			r := newSearchResult(newResult(packet.InstructionSearch, tt.code), tt.payload)
			assert.Equal(t, tt.wantFound, r.Found)
			assert.Equal(t, tt.wantStatus, r.Status)
			assert.Equal(t, tt.code, r.Code)
		})
	}
}

func TestSystemParameters_Derived(t *testing.T) {
	p := &SystemParameters{PacketSizeCode: 3, BaudMultiplier: 6}
	assert.Equal(t, 256, p.PacketSize())
	assert.Equal(t, 57600, p.BaudRate())
}

func TestParameter_Validate(t *testing.T) {
	tests := []struct {
		param Parameter
		value int
		ok    bool
	}{
		{ParamBaudRate, 0, false},
		{ParamBaudRate, 1, true},
		{ParamBaudRate, 12, true},
		{ParamBaudRate, 13, false},
		{ParamSecurityLevel, 0, false},
		{ParamSecurityLevel, 1, true},
		{ParamSecurityLevel, 5, true},
		{ParamSecurityLevel, 6, false},
		{ParamPacketLength, -1, false},
		{ParamPacketLength, 0, true},
		{ParamPacketLength, 3, true},
		{ParamPacketLength, 4, false},
		{Parameter(7), 1, false},
	}

	for _, tt := range tests {
		err := tt.param.validate(tt.value)
		if tt.ok {
			assert.NoError(t, err, "%s=%d", tt.param, tt.value)
		} else {
			assert.ErrorIs(t, err, ErrParameterOutOfRange, "%s=%d", tt.param, tt.value)
		}
	}
}
