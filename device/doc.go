// Package device provides a typed client for R30x-family fingerprint modules.
//
// A [Client] exposes one method per protocol instruction. Each method checks
// its arguments, builds the command packet, sends it through a
// [channel.Channel] with the response length fixed by the protocol, and
// returns a result value carrying the raw confirmation code and its
// interpreted [Status].
//
// # Device status is not an error
//
// A command the module rejects still completes successfully at the protocol
// level: the method returns a result whose OK method reports false and whose
// Err method returns a [*DeviceError]. The error return value of a method is
// reserved for argument validation, transport, timeout and protocol failures.
//
//	res, err := client.GenerateImage(ctx)
//	if err != nil {
//	    return err // link or protocol problem
//	}
//	if res.Status == device.StatusFingerUndetected {
//	    // poll again
//	}
//
// # Search results
//
// The search family reports a hit with confirmation code 0, the same value
// that means success elsewhere. The module also answers code 0 with page 0
// and score 0 when nothing matched, so [SearchResult.Found] is true only when
// the status is a hit and the page and score are not both zero.
//
// # Serialization
//
// Methods are safe for concurrent use; the client sends one command at a
// time. Multi-command sequences such as [Client.StoreTemplate] with
// [AutoPosition] are not atomic with respect to other callers.
package device
