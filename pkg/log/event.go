package log

import "time"

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies one claim of a camera (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates data flow relative to the host.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Serial is the serial number of the claimed camera.
	Serial string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"` // Transport layer
	Capture     *CaptureEvent     `cbor:"11,keyasint,omitempty"` // Capture layer
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Connection state
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn indicates data read from the camera.
	DirectionIn Direction = 0
	// DirectionOut indicates data written to the camera.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the USB framing layer (raw bytes).
	LayerTransport Layer = 0
	// LayerDriver is the register/feature/device layer.
	LayerDriver Layer = 1
	// LayerCapture is the acquisition loop.
	LayerCapture Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerDriver:
		return "DRIVER"
	case LayerCapture:
		return "CAPTURE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a command, response or captured frame.
	CategoryMessage Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw bulk transfer data at the transport layer.
type FrameEvent struct {
	// Size is the number of bytes transferred.
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for image data).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`

	// Opcode is the command opcode of an outbound frame, or of the
	// command a response answers.
	Opcode *uint8 `cbor:"4,keyasint,omitempty"`

	// Flush marks frames carrying the flush directive.
	Flush bool `cbor:"5,keyasint,omitempty"`
}

// CaptureEvent summarises one iteration of the acquisition loop.
type CaptureEvent struct {
	// Width of the decoded image (0 when no image was produced).
	Width int `cbor:"1,keyasint"`

	// Height of the decoded image (0 when no image was produced).
	Height int `cbor:"2,keyasint"`

	// Bytes is the size of the raw plane received.
	Bytes int `cbor:"3,keyasint,omitempty"`

	// Duration is the time spent grabbing and decoding.
	Duration time.Duration `cbor:"4,keyasint,omitempty"`

	// Mode is the colour mode used for decoding.
	Mode string `cbor:"5,keyasint,omitempty"`
}

// StateChangeEvent captures connection lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityConnection indicates a USB connection state change.
	StateEntityConnection StateEntity = 0
	// StateEntityAcquisition indicates the capture loop was paused, resumed or stopped.
	StateEntityAcquisition StateEntity = 1
	// StateEntityContext indicates the active register context changed.
	StateEntityContext StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntityAcquisition:
		return "ACQUISITION"
	case StateEntityContext:
		return "CONTEXT"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the libusb error code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
