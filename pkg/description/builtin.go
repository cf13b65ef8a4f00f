package description

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed chips/*.yaml
var chipFS embed.FS

// Chip codes reported by the camera's Query device.
const (
	ChipV024 byte = 0x00
	ChipMT9  byte = 0x01
)

var chipNames = map[byte]string{
	ChipV024: "v024",
	ChipMT9:  "mt9",
}

// ChipName returns the description name for a chip code.
func ChipName(code byte) (string, bool) {
	name, ok := chipNames[code]
	return name, ok
}

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Description)
)

// Builtin returns an embedded description by chip name. The result is shared
// and must not be modified.
func Builtin(name string) (*Description, error) {
	cacheMu.RLock()
	if d, ok := cache[name]; ok {
		cacheMu.RUnlock()
		return d, nil
	}
	cacheMu.RUnlock()

	f, err := chipFS.Open("chips/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("description %q not found: %w", name, err)
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("builtin %q: %w", name, err)
	}

	cacheMu.Lock()
	cache[name] = d
	cacheMu.Unlock()

	return d, nil
}

// ForChip returns the embedded description for a Query chip code.
func ForChip(code byte) (*Description, error) {
	name, ok := ChipName(code)
	if !ok {
		return nil, fmt.Errorf("unknown chip code 0x%02x", code)
	}
	return Builtin(name)
}

// Available returns the names of all embedded descriptions.
func Available() ([]string, error) {
	entries, err := chipFS.ReadDir("chips")
	if err != nil {
		return nil, fmt.Errorf("reading chips directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
