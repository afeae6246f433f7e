package channel

import (
	"sync/atomic"
)

// Metrics contains atomic counters for a Channel.
// Counters only grow; read them with Load at any time.
type Metrics struct {
	// CommandCount indicates the number of commands written to the transport.
	CommandCount atomic.Uint64
	// ResponseCount indicates the number of responses decoded successfully.
	ResponseCount atomic.Uint64
	// ErrorCount indicates the number of commands that ended with an error.
	ErrorCount atomic.Uint64
	// TimeoutCount indicates the number of commands that timed out.
	TimeoutCount atomic.Uint64
	// CancelCount indicates the number of commands cancelled by the caller.
	CancelCount atomic.Uint64

	// BytesSent indicates the number of bytes written to the transport.
	BytesSent atomic.Uint64
	// BytesReceived indicates the number of bytes delivered by the transport.
	BytesReceived atomic.Uint64
	// DroppedBytes indicates bytes discarded because no armed request was pending.
	DroppedBytes atomic.Uint64
}

func (m *Metrics) incCommandCount() {
	m.CommandCount.Add(1)
}

func (m *Metrics) incResponseCount() {
	m.ResponseCount.Add(1)
}

func (m *Metrics) incErrorCount() {
	m.ErrorCount.Add(1)
}

func (m *Metrics) incTimeoutCount() {
	m.TimeoutCount.Add(1)
}

func (m *Metrics) incCancelCount() {
	m.CancelCount.Add(1)
}

func (m *Metrics) addBytesSent(n int) {
	m.BytesSent.Add(uint64(n)) //nolint:gosec // n is never negative
}

func (m *Metrics) addBytesReceived(n int) {
	m.BytesReceived.Add(uint64(n)) //nolint:gosec // n is never negative
}

func (m *Metrics) addDroppedBytes(n int) {
	m.DroppedBytes.Add(uint64(n)) //nolint:gosec // n is never negative
}
