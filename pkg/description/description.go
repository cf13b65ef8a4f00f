// Package description loads camera description documents: the register map
// of an imaging chip, the named bit fields (features) within each register,
// and the per-context aliases that give chip-specific features generic names.
//
// Descriptions for the supported chips are embedded; custom documents can be
// loaded from YAML files.
package description

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/psinc/psinc-go/pkg/driver"
)

// Description is a camera description document.
type Description struct {
	// Chip is the chip name ("v024", "mt9").
	Chip string `yaml:"chip"`

	// Contexts is the number of register contexts (at least 1).
	Contexts int `yaml:"contexts"`

	// AddressSize is the number of page bytes per register address step
	// (2 for word addressed chips, 1 for byte addressed ones). Zero means 2.
	AddressSize int `yaml:"addressSize"`

	// Pattern is the colour filter phase of the first raw pixel
	// (RGGB, GBRG, GRBG or BGGR). Empty means BGGR.
	Pattern string `yaml:"pattern"`

	// SizeByRange derives the image size from start/end window registers
	// instead of width/height registers.
	SizeByRange bool `yaml:"sizeByRange"`

	Aliases   []AliasDef    `yaml:"aliases"`
	Registers []RegisterDef `yaml:"registers"`
}

// AliasDef maps a generic name to a feature. A nil Context applies the alias
// to every context.
type AliasDef struct {
	Name    string `yaml:"name"`
	Feature string `yaml:"feature"`
	Context *int   `yaml:"context"`
}

// RegisterDef is a register and the features packed into it.
type RegisterDef struct {
	Address  uint16       `yaml:"address"`
	Features []FeatureDef `yaml:"features"`
}

// FeatureDef describes a bit field.
type FeatureDef struct {
	Name     string `yaml:"name"`
	Bits     int    `yaml:"bits"`
	Offset   int    `yaml:"offset"`
	Min      int    `yaml:"min"`
	Max      *int   `yaml:"max"`
	Default  int    `yaml:"default"`
	Invalid  string `yaml:"invalid"`
	ReadOnly bool   `yaml:"readonly"`
}

// Config converts the definition into a driver feature configuration.
func (f FeatureDef) Config() (driver.FeatureConfig, error) {
	invalid, err := driver.ParseInvalid(f.Invalid)
	if err != nil {
		var cerr *driver.ConfigError
		if errors.As(err, &cerr) {
			cerr.Feature = f.Name
		}
		return driver.FeatureConfig{}, err
	}

	return driver.FeatureConfig{
		Name:     f.Name,
		Offset:   f.Offset,
		Bits:     f.Bits,
		Min:      f.Min,
		Max:      f.Max,
		Default:  f.Default,
		ReadOnly: f.ReadOnly,
		Invalid:  invalid,
	}, nil
}

// LoadError reports a description that could not be read or is inconsistent.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Load parses and validates a description. Unknown keys are rejected.
func Load(r io.Reader) (*Description, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Description
	if err := dec.Decode(&d); err != nil {
		return nil, &LoadError{Message: "parsing description", Cause: err}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile loads a description from path.
func LoadFile(path string) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "opening description", Cause: err}
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		var lerr *LoadError
		if errors.As(err, &lerr) {
			lerr.File = path
		}
		return nil, err
	}
	return d, nil
}

// FeatureCount returns the number of features across all registers.
func (d *Description) FeatureCount() int {
	n := 0
	for _, r := range d.Registers {
		n += len(r.Features)
	}
	return n
}

// Feature finds a feature definition by name.
func (d *Description) Feature(name string) (FeatureDef, uint16, bool) {
	for _, r := range d.Registers {
		for _, f := range r.Features {
			if f.Name == name {
				return f, r.Address, true
			}
		}
	}
	return FeatureDef{}, 0, false
}

func (d *Description) String() string {
	return fmt.Sprintf("%s (%d registers, %d features, %d contexts)",
		d.Chip, len(d.Registers), d.FeatureCount(), d.Contexts)
}
