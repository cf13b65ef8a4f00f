package driver

import "errors"

// Transport is the command channel the driver model needs.
type Transport interface {
	// Command sends a simple frame and reads len(receive) bytes.
	Command(cmd, receive []byte) error

	// CommandFlush sends cmd behind a flush directive.
	CommandFlush(cmd, receive []byte, checkLength bool) error

	// Transfer writes a raw frame and reads the response.
	Transfer(send, receive []byte, checkLength bool) error
}

// Driver errors.
var (
	// ErrInvalidResponse indicates a response with an unexpected header or length.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrWrongDirection indicates a read from an output device or a write to an input device.
	ErrWrongDirection = errors.New("wrong device direction")

	// ErrEmptyPayload indicates a block write without data.
	ErrEmptyPayload = errors.New("empty payload")
)
