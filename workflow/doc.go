// Package workflow chains device commands into the multi-step procedures of
// a fingerprint reader: waiting for a finger, enrolling a new template and
// identifying a presented finger.
//
// Every procedure runs as an explicit sequence of [Stage] values. The first
// stage that fails aborts the procedure and is reported through a
// [*StageError]; the partially filled result is returned alongside it.
// Finger-presence polling is the only step that retries, and it is bounded
// by [WithMaxScanAttempts].
//
// An [Engine] must not be used concurrently, and other users of the same
// device client must not interleave commands with a running procedure.
package workflow
