package camera

import (
	"sort"
	"strconv"

	"github.com/psinc/psinc-go/pkg/decode"
	"github.com/psinc/psinc-go/pkg/driver"
	"github.com/psinc/psinc-go/pkg/log"
)

// Well-known alias names used for the capture window.
const (
	AliasWidth       = "Width"
	AliasHeight      = "Height"
	AliasColumnStart = "ColumnStart"
	AliasRowStart    = "RowStart"
	AliasColumnEnd   = "ColumnEnd"
	AliasRowEnd      = "RowEnd"
)

// Serial returns the serial number of the claimed camera.
func (c *Camera) Serial() string {
	return c.transport.Serial()
}

// Chip returns the description name of the configured camera.
func (c *Camera) Chip() string {
	if m := c.current(); m != nil {
		return m.desc.Chip
	}
	return ""
}

// Monochrome reports whether the camera has a monochrome sensor.
func (c *Camera) Monochrome() bool {
	if m := c.current(); m != nil {
		return m.monochrome
	}
	return false
}

// Pattern returns the colour filter phase of the sensor.
func (c *Camera) Pattern() decode.Pattern {
	if m := c.current(); m != nil {
		return m.pattern
	}
	return decode.BGGR
}

// Query returns the decoded Query device payload read while configuring.
func (c *Camera) Query() driver.Query {
	if m := c.current(); m != nil {
		return m.query
	}
	return driver.Query{}
}

// Feature returns a feature by name, or nil.
func (c *Camera) Feature(name string) *driver.Feature {
	if m := c.current(); m != nil {
		return m.features[name]
	}
	return nil
}

// Features returns the feature names in sorted order.
func (c *Camera) Features() []string {
	m := c.current()
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.features))
	for name := range m.features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Alias returns the feature an alias refers to in the active context, or nil.
func (c *Camera) Alias(name string) *driver.Feature {
	if m := c.current(); m != nil {
		return m.aliases.Get(name)
	}
	return nil
}

// AliasIn returns the feature an alias refers to in context, or nil.
func (c *Camera) AliasIn(context int, name string) *driver.Feature {
	if m := c.current(); m != nil {
		return m.aliases.GetIn(context, name)
	}
	return nil
}

// Aliases returns the alias names of the active context in sorted order.
func (c *Camera) Aliases() []string {
	if m := c.current(); m != nil {
		return m.aliases.Names()
	}
	return nil
}

// IsGeneric reports whether a feature is exposed under a generic alias in
// the active context.
func (c *Camera) IsGeneric(f *driver.Feature) bool {
	if m := c.current(); m != nil {
		return m.aliases.IsGeneric(f)
	}
	return false
}

// Device returns a peripheral by name, or nil.
func (c *Camera) Device(name string) *driver.Device {
	if m := c.current(); m != nil {
		return m.devices[name]
	}
	return nil
}

// Devices returns the peripheral names in sorted order.
func (c *Camera) Devices() []string {
	m := c.current()
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.devices))
	for name := range m.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Contexts returns the number of register contexts.
func (c *Camera) Contexts() int {
	if m := c.current(); m != nil {
		return m.aliases.Contexts()
	}
	return 0
}

// Context returns the active register context.
func (c *Camera) Context() int {
	if m := c.current(); m != nil {
		return m.aliases.Context()
	}
	return 0
}

// SetContext switches the active register context.
func (c *Camera) SetContext(context int) bool {
	m := c.current()
	if m == nil {
		return false
	}

	old := m.aliases.Context()
	if !m.aliases.SetContext(context) {
		return false
	}
	if old != context {
		c.logState(log.StateEntityContext, strconv.Itoa(old), strconv.Itoa(context), "")
	}
	return true
}

// Size returns the capture window of the active context.
func (c *Camera) Size() (width, height int) {
	m := c.current()
	if m == nil {
		return 0, 0
	}
	return m.size(m.aliases.Context())
}

// SizeIn returns the capture window of a context.
func (c *Camera) SizeIn(context int) (width, height int) {
	m := c.current()
	if m == nil {
		return 0, 0
	}
	return m.size(context)
}

func (m *model) size(context int) (int, int) {
	value := func(name string) (int, bool) {
		f := m.aliases.GetIn(context, name)
		if f == nil {
			return 0, false
		}
		return f.Value(), true
	}

	if m.desc.SizeByRange {
		x0, ok1 := value(AliasColumnStart)
		x1, ok2 := value(AliasColumnEnd)
		y0, ok3 := value(AliasRowStart)
		y1, ok4 := value(AliasRowEnd)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return 0, 0
		}
		return max(x1-x0+1, 0), max(y1-y0+1, 0)
	}

	w, ok1 := value(AliasWidth)
	h, ok2 := value(AliasHeight)
	if !ok1 || !ok2 {
		return 0, 0
	}
	return w, h
}

// SetWindow positions the capture window of a context. x and y are offsets
// from the smallest start row and column. A negative width or height
// restores the default size. It fails if the description has no window
// aliases for the context; individual writes that the features reject are
// ignored.
func (c *Camera) SetWindow(context, x, y, width, height int) bool {
	m := c.current()
	if m == nil {
		return false
	}

	column := m.aliases.GetIn(context, AliasColumnStart)
	row := m.aliases.GetIn(context, AliasRowStart)
	if column == nil || row == nil {
		return false
	}

	var w, h *driver.Feature
	if m.desc.SizeByRange {
		w, h = m.aliases.GetIn(context, AliasColumnEnd), m.aliases.GetIn(context, AliasRowEnd)
	} else {
		w, h = m.aliases.GetIn(context, AliasWidth), m.aliases.GetIn(context, AliasHeight)
	}
	if w == nil || h == nil {
		return false
	}

	mx, my := column.Minimum(), row.Minimum()
	column.Set(mx + x)
	row.Set(my + y)

	setExtent := func(f *driver.Feature, start, extent int) {
		switch {
		case extent < 0:
			f.Reset()
		case m.desc.SizeByRange:
			f.Set(start + extent - 1)
		default:
			f.Set(extent)
		}
	}
	setExtent(w, mx+x, width)
	setExtent(h, my+y, height)

	return true
}

// ReadRegister reads a register directly from the camera. Registers known to
// the description have their cache updated.
func (c *Camera) ReadRegister(address uint16) (uint16, error) {
	r := c.register(address)
	if err := r.Refresh(); err != nil {
		return 0, err
	}
	return r.Value(), nil
}

// WriteRegister writes a register directly.
func (c *Camera) WriteRegister(address, value uint16) error {
	return c.register(address).Write(value)
}

func (c *Camera) register(address uint16) *driver.Register {
	addressSize := 0
	if m := c.current(); m != nil {
		for _, r := range m.registers {
			if r.Address() == address {
				return r
			}
		}
		addressSize = m.desc.AddressSize
	}
	return driver.NewRegister(c.transport, address, addressSize)
}
