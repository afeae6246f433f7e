package device

import (
	"fmt"
	"strings"

	"github.com/arloliu/go-fpsensor/packet"
)

// Result is the outcome of one command as reported by the module.
type Result struct {
	Instruction packet.Instruction
	Code        packet.ConfirmationCode
	Status      Status
}

func newResult(ins packet.Instruction, code packet.ConfirmationCode) Result {
	return Result{Instruction: ins, Code: code, Status: Interpret(ins, code)}
}

// OK reports whether the module completed the command successfully.
func (r Result) OK() bool { return r.Status.IsSuccess() }

// Err returns nil when OK reports true and a *DeviceError otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}

	return &DeviceError{Instruction: r.Instruction, Code: r.Code, Status: r.Status}
}

// SystemParameters is the decoded answer of ReadSystemParameters.
type SystemParameters struct {
	Result
	StatusRegister uint16
	SystemID       uint16
	LibrarySize    uint16
	SecurityLevel  uint16
	Address        uint32
	PacketSizeCode uint16
	BaudMultiplier uint16
}

// PacketSize returns the data packet size in bytes encoded by PacketSizeCode.
func (p *SystemParameters) PacketSize() int {
	return 32 << (p.PacketSizeCode & 0x03)
}

// BaudRate returns the configured serial speed in bits per second.
func (p *SystemParameters) BaudRate() int {
	return int(p.BaudMultiplier) * 9600
}

func parseSystemParameters(res Result, payload []byte) *SystemParameters {
	return &SystemParameters{
		Result:         res,
		StatusRegister: be16(payload[0:2]),
		SystemID:       be16(payload[2:4]),
		LibrarySize:    be16(payload[4:6]),
		SecurityLevel:  be16(payload[6:8]),
		Address:        be32(payload[8:12]),
		PacketSizeCode: be16(payload[12:14]),
		BaudMultiplier: be16(payload[14:16]),
	}
}

// TemplateCount is the number of stored templates.
type TemplateCount struct {
	Result
	Count uint16
}

// TemplateIndex is the occupancy of one index page.
type TemplateIndex struct {
	Result
	Page int
	// Slots holds SlotsPerPage entries; true marks an occupied position.
	Slots []bool
}

// decodeIndex expands the index bitmap; bit 0 of byte 0 is the first slot.
func decodeIndex(bitmap []byte) []bool {
	slots := make([]bool, len(bitmap)*8)
	for i, b := range bitmap {
		for bit := 0; bit < 8; bit++ {
			slots[i*8+bit] = (b>>bit)&0x01 == 1
		}
	}

	return slots
}

// Occupied returns the absolute library positions in use on this page.
func (t *TemplateIndex) Occupied() []uint16 {
	var ids []uint16
	for i, used := range t.Slots {
		if used {
			ids = append(ids, uint16(t.Page*SlotsPerPage+i))
		}
	}

	return ids
}

// FirstFree returns the first unused absolute position on this page.
func (t *TemplateIndex) FirstFree() (int, bool) {
	for i, used := range t.Slots {
		if !used {
			return t.Page*SlotsPerPage + i, true
		}
	}

	return 0, false
}

// Grid renders the page as rows of 16 slots, '#' for occupied and '.' for free.
func (t *TemplateIndex) Grid() string {
	var sb strings.Builder
	for row := 0; row*16 < len(t.Slots); row++ {
		fmt.Fprintf(&sb, "%04d ", t.Page*SlotsPerPage+row*16)
		for _, used := range t.Slots[row*16 : min(row*16+16, len(t.Slots))] {
			if used {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// MatchResult is the answer of CheckMatch.
type MatchResult struct {
	Result
	Score uint16
}

// Matched reports whether the two character buffers belong to one finger.
func (m *MatchResult) Matched() bool { return m.Status == StatusMatched }

// SearchResult is the answer of Search, Identify and AutoSearch.
type SearchResult struct {
	Result
	PageID     uint16
	MatchScore uint16
	Found      bool
}

// newSearchResult applies the not-found rule: a hit with page 0 and score 0
// means the library holds no match.
func newSearchResult(res Result, payload []byte) *SearchResult {
	r := &SearchResult{
		Result:     res,
		PageID:     be16(payload[0:2]),
		MatchScore: be16(payload[2:4]),
	}

	if res.Status == StatusSearchFound {
		if r.PageID == 0 && r.MatchScore == 0 {
			r.Status = StatusSearchNotFound
		} else {
			r.Found = true
		}
	}

	return r
}

// Completed reports whether the search ran to completion, with or without a hit.
func (r *SearchResult) Completed() bool {
	return r.Status == StatusSearchFound || r.Status == StatusSearchNotFound
}

// StoreResult is the answer of StoreTemplate.
type StoreResult struct {
	Result
	PageID uint16
}

// RandomCode is the answer of GetRandomCode.
type RandomCode struct {
	Result
	Value uint32
}

// Notepad is one page of user flash.
type Notepad struct {
	Result
	Page int
	Data []byte
}
