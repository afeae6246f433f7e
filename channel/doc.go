// Package channel correlates one outstanding command with its response on a
// duplex byte stream.
//
// The fingerprint module answers every command with exactly one acknowledge
// packet whose size is fixed by the protocol, and the serial link delivers
// that packet in arbitrarily sized chunks. A [Channel] owns the single
// in-flight request and the receive accumulator:
//
//  1. [Channel.Send] clears the accumulator, registers the request, writes the
//     packet and waits for the transport to drain.
//  2. Only after the drain completes is the receive path armed. Bytes that
//     arrive before that point belong to an earlier exchange and are dropped.
//  3. [Channel.OnBytes] appends each chunk; once the expected number of bytes
//     is buffered the packet is decoded and the request completed.
//
// A Channel never queues: a second Send while one is pending fails with
// [ErrBusy]. Callers serialize access, as the device package does with a
// mutex. Every Send is bounded by the configured timeout, after which the
// channel returns to idle, since the module itself cannot be interrupted.
package channel
