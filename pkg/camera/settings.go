package camera

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/psinc/psinc-go/pkg/persistence"
)

// Settings errors.
var (
	// ErrChipMismatch indicates settings saved for a different chip.
	ErrChipMismatch = errors.New("settings belong to a different chip")

	// ErrRejected indicates feature values that could not be applied.
	ErrRejected = errors.New("feature values rejected")
)

// Snapshot captures the active context and every writable feature value.
func (c *Camera) Snapshot() *persistence.Settings {
	m := c.current()
	if m == nil {
		return nil
	}

	s := &persistence.Settings{
		SavedAt:  time.Now(),
		Serial:   c.transport.Serial(),
		Chip:     m.desc.Chip,
		Context:  m.aliases.Context(),
		Features: make(map[string]int, len(m.features)),
	}
	for name, f := range m.features {
		if !f.ReadOnly() {
			s.Features[name] = f.Value()
		}
	}
	return s
}

// Apply writes saved feature values and then selects the saved context.
// Unknown features are skipped. Values the camera rejects are reported
// together in an ErrRejected error after every other value was applied.
func (c *Camera) Apply(s *persistence.Settings) error {
	m := c.current()
	if m == nil {
		return ErrNotConfigured
	}
	if s.Chip != "" && s.Chip != m.desc.Chip {
		return fmt.Errorf("%w: %s, camera is %s", ErrChipMismatch, s.Chip, m.desc.Chip)
	}

	var rejected []string
	for _, name := range s.Names() {
		f := m.features[name]
		if f == nil {
			c.debugLog("skipping unknown feature", "feature", name)
			continue
		}
		if f.ReadOnly() || f.Value() == s.Features[name] {
			continue
		}
		if !f.Set(s.Features[name]) {
			rejected = append(rejected, name)
		}
	}

	if s.Context != m.aliases.Context() && !c.SetContext(s.Context) {
		rejected = append(rejected, "context")
	}

	if len(rejected) > 0 {
		sort.Strings(rejected)
		return fmt.Errorf("%w: %s", ErrRejected, strings.Join(rejected, ", "))
	}
	return nil
}
