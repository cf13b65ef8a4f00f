// Package usb abstracts the USB host access needed to talk to PSI cameras.
//
// The transport layer only depends on the Host, Candidate and Handle
// interfaces defined here. NewHost returns the libusb-backed implementation
// (via gousb); the sim package provides a protocol-level simulated camera
// for tests and demos.
//
// # Endpoints
//
// PSI cameras expose a single vendor interface (0) with one bulk OUT
// endpoint (0x03) carrying commands and one bulk IN endpoint (0x81)
// carrying responses and image data.
//
// # Errors
//
// Backend failures are classified into libusb error codes with CodeOf so
// callers can distinguish a vanished device (CodeNoDevice) from transient
// conditions such as timeouts.
package usb
