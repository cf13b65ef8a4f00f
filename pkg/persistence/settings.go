package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// SettingsVersion is the current version of the settings file format.
const SettingsVersion = 1

// ErrNoSerial is returned when settings are saved without a serial number.
var ErrNoSerial = errors.New("settings have no serial number")

// Settings is a snapshot of a camera's writable features.
type Settings struct {
	// Version is the settings file format version.
	Version int `json:"version"`

	// SavedAt is when the settings were last saved.
	SavedAt time.Time `json:"saved_at"`

	// Serial is the camera serial number.
	Serial string `json:"serial"`

	// Chip is the description name the features belong to.
	Chip string `json:"chip,omitempty"`

	// Context is the active register context.
	Context int `json:"context"`

	// Features maps feature names to values.
	Features map[string]int `json:"features,omitempty"`
}

// Names returns the feature names in sorted order.
func (s *Settings) Names() []string {
	names := make([]string, 0, len(s.Features))
	for name := range s.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SettingsStore keeps settings files in a directory.
type SettingsStore struct {
	mu  sync.Mutex
	dir string
}

// NewSettingsStore creates a store rooted at dir.
func NewSettingsStore(dir string) *SettingsStore {
	return &SettingsStore{dir: dir}
}

// Dir returns the store directory.
func (s *SettingsStore) Dir() string {
	return s.dir
}

// Path returns the file used for serial.
func (s *SettingsStore) Path(serial string) string {
	return filepath.Join(s.dir, fileName(serial)+".json")
}

// fileName maps a serial number onto a portable file name.
func fileName(serial string) string {
	var b strings.Builder
	for _, r := range serial {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := strings.Trim(b.String(), ".")
	if name == "" {
		return "_"
	}
	return name
}

// Save persists settings under their serial number.
func (s *SettingsStore) Save(settings *Settings) error {
	if settings.Serial == "" {
		return ErrNoSerial
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	settings.Version = SettingsVersion
	if settings.SavedAt.IsZero() {
		settings.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path(settings.Serial), data, 0644)
}

// Load reads the settings saved for serial.
// Returns nil, nil if none were saved.
func (s *SettingsStore) Load(serial string) (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path(serial))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings for %s: %w", serial, err)
	}
	if settings.Version > SettingsVersion {
		return nil, fmt.Errorf("settings for %s: unsupported version %d", serial, settings.Version)
	}

	return settings, nil
}

// Clear removes the settings saved for serial.
func (s *SettingsStore) Clear(serial string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.Path(serial))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
