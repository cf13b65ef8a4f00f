package driver

import (
	"bytes"
	"fmt"

	"github.com/psinc/psinc-go/pkg/transport"
)

// Direction is the data direction a device supports.
type Direction int

const (
	// DirectionIn devices can only be read.
	DirectionIn Direction = iota
	// DirectionOut devices can only be written.
	DirectionOut
	// DirectionBoth devices can be read and written.
	DirectionBoth
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	case DirectionBoth:
		return "both"
	default:
		return "unknown"
	}
}

// CanRead reports whether the direction allows reads.
func (d Direction) CanRead() bool { return d != DirectionOut }

// CanWrite reports whether the direction allows writes.
func (d Direction) CanWrite() bool { return d != DirectionIn }

// deviceBufferSize is the receive buffer for queued device reads.
const deviceBufferSize = 512

// Device is a peripheral addressed by index.
type Device struct {
	t         Transport
	name      string
	index     byte
	direction Direction
}

// NewDevice creates a device.
func NewDevice(t Transport, name string, index byte, direction Direction) *Device {
	return &Device{t: t, name: name, index: index, direction: direction}
}

func (d *Device) Name() string { return d.name }
func (d *Device) Index() byte { return d.index }
func (d *Device) Direction() Direction { return d.direction }

// Initialise sends a configuration byte to the device.
func (d *Device) Initialise(config byte) error {
	return d.t.Command([]byte{byte(transport.OpInitialiseDevice), d.index, config}, nil)
}

// Read returns the device payload. An empty payload returns nil, nil.
func (d *Device) Read() ([]byte, error) {
	if !d.direction.CanRead() {
		return nil, fmt.Errorf("%w: %s is %s", ErrWrongDirection, d.name, d.direction)
	}

	buf := make([]byte, deviceBufferSize)
	if err := d.t.CommandFlush([]byte{byte(transport.OpQueueDevice), d.index, 0, 0, 0}, buf, false); err != nil {
		return nil, err
	}

	if buf[0] != 0x00 || buf[1] != d.index {
		return nil, fmt.Errorf("%w: device %s header %02x %02x", ErrInvalidResponse, d.name, buf[0], buf[1])
	}
	length := int(buf[3])<<8 | int(buf[2])
	if 4+length > len(buf) {
		return nil, fmt.Errorf("%w: device %s length %d", ErrInvalidResponse, d.name, length)
	}
	if length == 0 {
		return nil, nil
	}
	return bytes.Clone(buf[4 : 4+length]), nil
}

// ReadString returns the payload up to the first NUL byte.
func (d *Device) ReadString() (string, error) {
	data, err := d.Read()
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(data), nil
}

// WriteByte writes a single value to the device.
func (d *Device) WriteByte(v byte) error {
	if !d.direction.CanWrite() {
		return fmt.Errorf("%w: %s is %s", ErrWrongDirection, d.name, d.direction)
	}
	return d.t.Command([]byte{byte(transport.OpWriteDevice), d.index, v}, nil)
}

// WriteBlock writes data with a block frame.
func (d *Device) WriteBlock(data []byte) error {
	if !d.direction.CanWrite() {
		return fmt.Errorf("%w: %s is %s", ErrWrongDirection, d.name, d.direction)
	}
	if len(data) == 0 {
		return ErrEmptyPayload
	}

	frame, err := transport.BlockFrame(d.index, data)
	if err != nil {
		return err
	}
	return d.t.Transfer(frame, nil, false)
}

// WriteString writes s with a block frame.
func (d *Device) WriteString(s string) error {
	return d.WriteBlock([]byte(s))
}
