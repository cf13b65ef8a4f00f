package camera

import (
	"fmt"
	"strings"
	"time"

	"github.com/psinc/psinc-go/pkg/decode"
	"github.com/psinc/psinc-go/pkg/transport"
)

// MaxCaptureSize is the largest raw plane a capture command can request.
const MaxCaptureSize = 1<<24 - 1

// CaptureMode selects how a capture is triggered.
type CaptureMode uint8

const (
	// CaptureNormal captures immediately.
	CaptureNormal CaptureMode = iota
	// CaptureMaster captures and signals waiting slaves.
	CaptureMaster
	// CaptureSlaveRising waits for the rising edge of the sync signal.
	CaptureSlaveRising
	// CaptureSlaveFalling waits for the falling edge of the sync signal.
	CaptureSlaveFalling
)

var captureOpcodes = [...]transport.Opcode{
	CaptureNormal:       transport.OpCapture,
	CaptureMaster:       transport.OpMasterCapture,
	CaptureSlaveRising:  transport.OpSlaveCaptureRising,
	CaptureSlaveFalling: transport.OpSlaveCaptureFalling,
}

var captureNames = [...]string{
	CaptureNormal:       "normal",
	CaptureMaster:       "master",
	CaptureSlaveRising:  "slave-rising",
	CaptureSlaveFalling: "slave-falling",
}

// Opcode returns the capture command for the mode. Unknown modes capture
// normally.
func (m CaptureMode) Opcode() transport.Opcode {
	if int(m) < len(captureOpcodes) {
		return captureOpcodes[m]
	}
	return transport.OpCapture
}

func (m CaptureMode) String() string {
	if int(m) < len(captureNames) {
		return captureNames[m]
	}
	return fmt.Sprintf("CaptureMode(%d)", uint8(m))
}

// ParseCaptureMode parses a mode name as returned by String.
func ParseCaptureMode(s string) (CaptureMode, error) {
	for i, name := range captureNames {
		if strings.EqualFold(s, name) {
			return CaptureMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown capture mode %q", s)
}

// Frame is one raw capture.
type Frame struct {
	// Data is the raw plane, Width*Height bytes.
	Data []byte

	Width  int
	Height int

	// Monochrome and Pattern describe the sensor that produced the plane.
	Monochrome bool
	Pattern    decode.Pattern

	Mode      CaptureMode
	Timestamp time.Time
	Duration  time.Duration
}

// Decode converts the frame. colour selects Bayer colour over Bayer grey and
// is ignored for monochrome sensors.
func (f *Frame) Decode(colour bool, order decode.Order) (*decode.Image, error) {
	d := decode.Decoder{Mode: f.ColourMode(colour), Pattern: f.Pattern, Order: order}
	return d.Decode(f.Data, f.Width, f.Height)
}

// ColourMode returns the decoder mode Decode uses for the frame.
func (f *Frame) ColourMode(colour bool) decode.ColourMode {
	switch {
	case f.Monochrome:
		return decode.Monochrome
	case colour:
		return decode.BayerColour
	default:
		return decode.BayerGrey
	}
}

// Grab captures one raw frame of the active context's window. flash is the
// flash power passed to the camera.
func (c *Camera) Grab(mode CaptureMode, flash byte) (*Frame, error) {
	m := c.current()
	if m == nil {
		return nil, ErrNotConfigured
	}

	w, h := m.size(m.aliases.Context())
	size := w * h
	if size <= 0 {
		return nil, ErrNoWindow
	}
	if size > MaxCaptureSize {
		return nil, fmt.Errorf("%w: %dx%d exceeds capture limit", ErrNoWindow, w, h)
	}

	data := make([]byte, size)
	cmd := []byte{
		byte(mode.Opcode()),
		flash,
		byte(size), byte(size >> 8), byte(size >> 16),
	}

	start := time.Now()
	if err := c.transport.Command(cmd, data); err != nil {
		c.debugLog("capture failed", "mode", mode, "width", w, "height", h, "error", err)
		return nil, err
	}

	return &Frame{
		Data:       data,
		Width:      w,
		Height:     h,
		Monochrome: m.monochrome,
		Pattern:    m.pattern,
		Mode:       mode,
		Timestamp:  start,
		Duration:   time.Since(start),
	}, nil
}
