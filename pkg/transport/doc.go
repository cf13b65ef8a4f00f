// Package transport implements the PSI camera bulk protocol.
//
// A Transport claims one camera (matched by bus and a serial number regular
// expression) and serialises every command through a single lock, so callers
// on different goroutines never interleave a command with another's response.
//
// # Framing
//
// Every command travels in an 11-byte frame:
//
//	00 00 00 00 00, command (up to 5 bytes), FF
//
// Reads of queued values use the flush variant, which prefixes the command
// with 03 00 00 00 00 so the firmware discards stale responses first.
// Device block writes carry a 24-bit little-endian size and the payload:
//
//	00×5, 23, index, sizeLo, sizeMid, sizeHi, payload..., FF
//
// # Retry and disconnection
//
// Each direction of a transfer is attempted up to Config.Attempts times with
// Config.Timeout per attempt. NoDevice stops retrying after half a timeout.
// A transfer that still fails drops the claim, reports the libusb error name
// through OnTransferError and then fires OnConnectionChanged(false). A
// transfer that moves the wrong number of bytes returns ErrShortTransfer and
// keeps the claim.
package transport
