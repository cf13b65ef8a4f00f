// Package sim provides a simulated PSI camera that speaks the vendor bulk
// protocol behind the usb.Host interface.
//
// The simulation understands simple, flush and block-write frames. It keeps a
// register bank and per-device storage, answers page reads, queued register
// and device reads, the Query device, and capture commands (with a
// deterministic Bayer test scene). Faults can be injected to exercise the
// transport's retry and disconnection handling.
package sim

import (
	"sync"
	"time"

	"github.com/psinc/psinc-go/pkg/usb"
)

// Chip codes reported through the Query device.
const (
	ChipV024 byte = 0x00
	ChipMT9  byte = 0x01
)

const pageSize = 512

// Config describes a simulated camera.
type Config struct {
	// Serial is the serial number string descriptor.
	Serial string

	// Product is the product string descriptor.
	Product string

	// Bus is the bus number the camera appears on.
	Bus int

	// Chip is the imaging chip code reported by the Query device.
	Chip byte

	// Monochrome reports a monochrome sensor instead of a Bayer one.
	Monochrome bool

	// Devices is the peripheral index list reported by the Query device.
	Devices []byte

	// Registers seeds the register bank.
	Registers map[uint16]uint16

	// AddressSize is the register address size used for page layout.
	// Zero selects 2 for the v024 chip and 1 otherwise.
	AddressSize int

	// Scene generates the raw plane for a capture. If nil, Gradient is used.
	Scene func(frame, size int) []byte
}

// DefaultConfig returns a v024 colour camera with power-on register values
// for the window, gain and context registers.
func DefaultConfig(serial string) Config {
	return Config{
		Serial:  serial,
		Product: "PSI Camera",
		Bus:     1,
		Chip:    ChipV024,
		Devices: []byte{0x00, 0x01, 0x02, 0x05, 0x06, 0x07, 0x08},
		Registers: map[uint16]uint16{
			0x01: 1,
			0x02: 4,
			0x03: 480,
			0x04: 752,
			0x07: 0x0388,
			0x0b: 480,
			0x1c: 0x0302,
			0x2c: 4,
			0x35: 16,
			0x36: 0x8010,
		},
	}
}

// Camera is a simulated camera. It is safe for concurrent use.
type Camera struct {
	mu sync.Mutex

	cfg       Config
	registers map[uint16]uint16
	storage   map[byte][]byte
	inits     map[byte]byte
	pending   [][]byte
	frames    [][]byte

	claimed   bool
	unplugged bool

	failWrites int
	failReads  int
	failCode   usb.Code
	failReset  usb.Code
	shortReads int

	captures   int
	resets     int
	chipResets int
	delay      time.Duration
}

// NewCamera creates a simulated camera.
func NewCamera(cfg Config) *Camera {
	if cfg.AddressSize == 0 {
		cfg.AddressSize = 1
		if cfg.Chip == ChipV024 {
			cfg.AddressSize = 2
		}
	}
	if cfg.Scene == nil {
		cfg.Scene = Gradient
	}

	c := &Camera{
		cfg:       cfg,
		registers: make(map[uint16]uint16, len(cfg.Registers)),
		storage:   make(map[byte][]byte),
		inits:     make(map[byte]byte),
	}
	for addr, v := range cfg.Registers {
		c.registers[addr] = v
	}
	return c
}

// Serial returns the configured serial number.
func (c *Camera) Serial() string {
	return c.cfg.Serial
}

// Register returns the current value of a register.
func (c *Camera) Register(addr uint16) uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registers[addr]
}

// SetRegister changes a register as if the hardware had updated it.
func (c *Camera) SetRegister(addr, value uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registers[addr] = value
}

// Storage returns a copy of the data last written to a device.
func (c *Camera) Storage(index byte) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.storage[index]...)
}

// SetStorage sets the data a device returns when read.
func (c *Camera) SetStorage(index byte, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storage[index] = append([]byte(nil), data...)
}

// Initialised returns the configuration byte sent to a device, if any.
func (c *Camera) Initialised(index byte) (byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.inits[index]
	return v, ok
}

// Frames returns copies of every frame written to the camera.
func (c *Camera) Frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.frames))
	for i, f := range c.frames {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// Captures returns the number of capture commands served.
func (c *Camera) Captures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.captures
}

// Resets returns the number of USB and firmware resets received.
func (c *Camera) Resets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resets
}

// ChipResets returns the number of ResetChip commands received.
func (c *Camera) ChipResets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chipResets
}

// Claimed reports whether a handle currently owns the camera.
func (c *Camera) Claimed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claimed
}

// Unplug makes every subsequent operation fail with CodeNoDevice.
func (c *Camera) Unplug() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unplugged = true
	c.pending = nil
}

// Plug reverses Unplug.
func (c *Camera) Plug() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unplugged = false
}

// FailWrites makes the next n bulk writes fail with code.
func (c *Camera) FailWrites(n int, code usb.Code) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failWrites = n
	c.failCode = code
}

// FailReads makes the next n bulk reads fail with code.
func (c *Camera) FailReads(n int, code usb.Code) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failReads = n
	c.failCode = code
}

// FailReset makes the next USB reset fail with code.
func (c *Camera) FailReset(code usb.Code) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failReset = code
}

// ShortReads makes the next n bulk reads return half of the response.
func (c *Camera) ShortReads(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shortReads = n
}

// SetDelay adds a fixed latency to every bulk read.
func (c *Camera) SetDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delay = d
}

// Gradient is the default capture scene: a diagonal ramp that moves one
// step per frame.
func Gradient(frame, size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i + frame)
	}
	return data
}
