package driver

import (
	"fmt"
	"slices"
)

// FeatureConfig describes a bit field within a register.
type FeatureConfig struct {
	// Name is the unique feature name.
	Name string

	// Offset is the position of the least significant bit.
	Offset int

	// Bits is the field width (1..16). A one-bit feature is a flag.
	Bits int

	// Min is the smallest accepted value.
	Min int

	// Max is the largest accepted value. Nil selects the largest value the
	// field can hold, as does ReadOnly.
	Max *int

	// Default is the value Reset writes.
	Default int

	// ReadOnly rejects every Set.
	ReadOnly bool

	// Invalid lists values inside [Min, Max] that must not be written.
	Invalid []int
}

// Feature is a named bit field of a Register.
type Feature struct {
	name     string
	offset   int
	bits     int
	min      int
	max      int
	def      int
	readOnly bool
	mask     uint16
	invalid  []int

	register *Register
}

// NewFeature creates a feature on register.
func NewFeature(cfg FeatureConfig, register *Register) (*Feature, error) {
	if cfg.Bits < 1 || cfg.Bits > 16 {
		return nil, &ConfigError{Feature: cfg.Name, Value: fmt.Sprint(cfg.Bits), Message: "bits out of range"}
	}
	if cfg.Offset < 0 || cfg.Offset+cfg.Bits > 16 {
		return nil, &ConfigError{Feature: cfg.Name, Value: fmt.Sprint(cfg.Offset), Message: "offset out of range"}
	}

	full := 1<<cfg.Bits - 1
	limit := full
	if cfg.Max != nil && !cfg.ReadOnly {
		limit = *cfg.Max
	}

	invalid := slices.Clone(cfg.Invalid)
	slices.Sort(invalid)
	invalid = slices.Compact(invalid)

	return &Feature{
		name:     cfg.Name,
		offset:   cfg.Offset,
		bits:     cfg.Bits,
		min:      cfg.Min,
		max:      limit,
		def:      cfg.Default,
		readOnly: cfg.ReadOnly,
		mask:     uint16(full << cfg.Offset),
		invalid:  invalid,
		register: register,
	}, nil
}

func (f *Feature) Name() string { return f.name }
func (f *Feature) Minimum() int { return f.min }
func (f *Feature) Maximum() int { return f.max }
func (f *Feature) Default() int { return f.def }
func (f *Feature) ReadOnly() bool { return f.readOnly }
func (f *Feature) Flag() bool { return f.bits == 1 }
func (f *Feature) Bits() int { return f.bits }
func (f *Feature) Offset() int { return f.offset }
func (f *Feature) Mask() uint16 { return f.mask }
func (f *Feature) Register() *Register { return f.register }

// Invalid returns the sorted list of rejected values.
func (f *Feature) Invalid() []int {
	return slices.Clone(f.invalid)
}

// IsInvalid reports whether v is in the invalid list.
func (f *Feature) IsInvalid(v int) bool {
	_, found := slices.BinarySearch(f.invalid, v)
	return found
}

// Value returns the field extracted from the cached register value.
func (f *Feature) Value() int {
	return int(f.register.Value()&f.mask) >> f.offset
}

// Accepts reports whether Set would attempt to write v.
func (f *Feature) Accepts(v int) bool {
	return !f.readOnly && v >= f.min && v <= f.max && !f.IsInvalid(v)
}

// Set writes v if the feature accepts it. It returns false when the value
// is rejected or the write fails; transfer failures are also reported
// through the transport's events.
func (f *Feature) Set(v int) bool {
	if !f.Accepts(v) {
		return false
	}

	var err error
	if f.Flag() {
		err = f.register.SetBit(f.offset, v != 0)
	} else {
		err = f.register.Update(f.mask, uint16(v<<f.offset))
	}
	return err == nil
}

// Reset writes the default value.
func (f *Feature) Reset() bool {
	return f.Set(f.def)
}

// Refresh reads the underlying register from the camera.
func (f *Feature) Refresh() error {
	return f.register.Refresh()
}

// String returns the feature name and value.
func (f *Feature) String() string {
	return fmt.Sprintf("%s=%d", f.name, f.Value())
}
