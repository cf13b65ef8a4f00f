package description

import (
	"fmt"

	"github.com/psinc/psinc-go/pkg/decode"
)

// Validate checks the description for structural errors.
func (d *Description) Validate() error {
	fail := func(format string, args ...any) error {
		return &LoadError{Message: fmt.Sprintf(format, args...)}
	}

	if d.Contexts < 1 {
		return fail("contexts must be at least 1, got %d", d.Contexts)
	}
	if d.AddressSize < 0 || d.AddressSize > 2 {
		return fail("addressSize must be 1 or 2, got %d", d.AddressSize)
	}
	if d.Pattern != "" {
		if _, err := decode.ParsePattern(d.Pattern); err != nil {
			return &LoadError{Message: "invalid pattern", Cause: err}
		}
	}

	addresses := make(map[uint16]bool, len(d.Registers))
	names := make(map[string]bool)
	for _, r := range d.Registers {
		if addresses[r.Address] {
			return fail("duplicate register 0x%04x", r.Address)
		}
		addresses[r.Address] = true

		for _, f := range r.Features {
			if f.Name == "" {
				return fail("register 0x%04x has an unnamed feature", r.Address)
			}
			if names[f.Name] {
				return fail("duplicate feature %q", f.Name)
			}
			names[f.Name] = true

			if f.Bits < 1 || f.Bits > 16 {
				return fail("feature %q: bits must be 1..16, got %d", f.Name, f.Bits)
			}
			if f.Offset < 0 || f.Offset+f.Bits > 16 {
				return fail("feature %q: offset %d does not fit a 16-bit register", f.Name, f.Offset)
			}
			if _, err := f.Config(); err != nil {
				return &LoadError{Message: "invalid list", Cause: err}
			}
		}
	}

	for _, a := range d.Aliases {
		if !names[a.Feature] {
			return fail("alias %q refers to unknown feature %q", a.Name, a.Feature)
		}
		if a.Context != nil && (*a.Context < 0 || *a.Context >= d.Contexts) {
			return fail("alias %q: context %d out of range", a.Name, *a.Context)
		}
	}
	return nil
}
