package channel

// Transport is the byte stream to the module.
//
// Write sends bytes; Drain blocks until everything written has left the host.
// The receiver registered with SetReceiver is called with newly available
// bytes in arrival order, in chunks of any size and without framing. The
// chunk slice is only valid for the duration of the call.
type Transport interface {
	Write(p []byte) (int, error)
	Drain() error
	SetReceiver(fn func(chunk []byte))
	Close() error
}
