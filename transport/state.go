package transport

import "sync/atomic"

type portState uint32

const (
	stateClosed portState = iota
	stateOpened
	stateClosing
)

// atomicState tracks the lifecycle of a Port.
type atomicState struct {
	state atomic.Uint32
}

func (st *atomicState) get() portState {
	return portState(st.state.Load())
}

func (st *atomicState) String() string {
	switch st.get() {
	case stateClosed:
		return "Closed"
	case stateOpened:
		return "Opened"
	case stateClosing:
		return "Closing"
	default:
		return "Unknown"
	}
}

func (st *atomicState) isOpened() bool { return st.get() == stateOpened }

func (st *atomicState) toOpened() bool {
	return st.state.CompareAndSwap(uint32(stateClosed), uint32(stateOpened))
}

func (st *atomicState) toClosing() bool {
	return st.state.CompareAndSwap(uint32(stateOpened), uint32(stateClosing))
}

func (st *atomicState) toClosed() {
	st.state.Store(uint32(stateClosed))
}
