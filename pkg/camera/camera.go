package camera

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/psinc/psinc-go/pkg/decode"
	"github.com/psinc/psinc-go/pkg/description"
	"github.com/psinc/psinc-go/pkg/driver"
	"github.com/psinc/psinc-go/pkg/log"
	"github.com/psinc/psinc-go/pkg/transport"
	"github.com/psinc/psinc-go/pkg/usb"
)

// RefreshAttempts is the number of reads tried per register page.
const RefreshAttempts = 3

// Camera errors.
var (
	// ErrNotConfigured indicates an operation that needs a connected,
	// configured camera.
	ErrNotConfigured = errors.New("camera not configured")

	// ErrRefreshFailed indicates that no register page could be read.
	ErrRefreshFailed = errors.New("register refresh failed")

	// ErrNoWindow indicates that the capture window is empty or unknown.
	ErrNoWindow = errors.New("capture window is empty")
)

// Config configures a Camera.
type Config struct {
	// Host enumerates and opens cameras. Required.
	Host usb.Host

	// Serial is a regular expression matched against camera serial numbers.
	// Empty matches any camera.
	Serial string

	// Bus restricts the camera to one USB bus. Zero matches any bus.
	Bus int

	// Timeout applies to each bulk transfer attempt (default: 200ms).
	Timeout time.Duration

	// Attempts is the number of tries per transfer direction (default: 4).
	Attempts int

	// Description overrides the description chosen from the Query device.
	Description *description.Description

	// Logger is the optional logger for operational messages.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives frame, state and error events.
	// If nil, protocol capture is disabled.
	ProtocolLogger log.Logger
}

// DefaultConfig returns the default configuration for any camera on host.
func DefaultConfig(host usb.Host) Config {
	return Config{
		Host:     host,
		Timeout:  200 * time.Millisecond,
		Attempts: 4,
	}
}

// model is the driver view of one configured camera. It is replaced as a
// whole on each configure and never mutated afterwards.
type model struct {
	desc       *description.Description
	query      driver.Query
	monochrome bool
	pattern    decode.Pattern

	registers []*driver.Register
	pages     []byte
	features  map[string]*driver.Feature
	aliases   *driver.AliasCollection
	devices   map[string]*driver.Device
}

// Camera is a PSI camera. It is safe for concurrent use.
type Camera struct {
	config    Config
	logger    *slog.Logger
	plog      log.Logger
	transport *transport.Transport

	mu    sync.RWMutex
	model *model

	handlersMu   sync.Mutex
	onRefreshed  []func()
	onConnection []func(bool)
	announced    bool
}

// New creates a disconnected camera.
func New(config Config) *Camera {
	plog := config.ProtocolLogger
	if plog == nil {
		plog = log.NoopLogger{}
	}

	c := &Camera{
		config: config,
		logger: config.Logger,
		plog:   plog,
		transport: transport.New(transport.Config{
			Host:           config.Host,
			Timeout:        config.Timeout,
			Attempts:       config.Attempts,
			Logger:         config.Logger,
			ProtocolLogger: config.ProtocolLogger,
		}),
	}
	c.transport.OnConnectionChanged(func(connected bool) {
		if !connected {
			c.announce(false)
		}
	})
	return c
}

// Transport returns the underlying transport.
func (c *Camera) Transport() *transport.Transport {
	return c.transport
}

// OnConnectionChanged registers a callback for connection edges. True is
// delivered once the camera is configured and its features refreshed; false
// only follows a delivered true.
func (c *Camera) OnConnectionChanged(fn func(connected bool)) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.onConnection = append(c.onConnection, fn)
}

// OnTransferError registers a callback receiving the libusb error name of
// each failed transfer.
func (c *Camera) OnTransferError(fn func(code string)) {
	c.transport.OnTransferError(fn)
}

// OnRefreshed registers a callback invoked after the feature cache has been
// refreshed from the camera.
func (c *Camera) OnRefreshed(fn func()) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.onRefreshed = append(c.onRefreshed, fn)
}

// ConnectionID returns the identifier of the current claim.
func (c *Camera) ConnectionID() string {
	return c.transport.ConnectionID()
}

// Connected reports whether the camera is claimed.
func (c *Camera) Connected() bool {
	return c.transport.Connected()
}

// Connect claims the camera and configures it. Connecting an already
// connected camera does nothing. If the registers cannot be read the claim
// is dropped again.
func (c *Camera) Connect() error {
	if c.transport.Connected() {
		return nil
	}

	if err := c.transport.Connect(c.config.Serial, c.config.Bus); err != nil {
		return err
	}

	if err := c.configure(); err != nil {
		c.warnLog("configure failed, releasing camera", "error", err)
		c.logError(err.Error(), "configure")
		c.transport.Release()
		return err
	}

	// The claim can drop inside a Refreshed handler.
	if c.transport.Connected() {
		c.announce(true)
	}
	return nil
}

// configure reads the Query device, builds the driver model and refreshes it.
func (c *Camera) configure() error {
	query, err := c.readQuery()
	if err != nil {
		if !c.transport.Connected() {
			return err
		}
		c.warnLog("query device unreadable, assuming defaults", "error", err)
	}

	desc, err := c.pickDescription(query)
	if err != nil {
		return err
	}

	m, err := build(c.transport, desc, query)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.model = m
	c.mu.Unlock()

	c.infoLog("camera configured",
		"serial", c.transport.Serial(),
		"chip", desc.Chip,
		"monochrome", m.monochrome,
		"features", len(m.features),
		"devices", len(m.devices))
	c.logState(log.StateEntityConnection, "claimed", "configured", desc.Chip)

	return c.Refresh()
}

func (c *Camera) readQuery() (driver.Query, error) {
	dev := driver.NewDevice(c.transport, "Query", driver.IndexQuery, driver.DirectionIn)
	data, err := dev.Read()
	if err != nil {
		return driver.Query{}, err
	}
	return driver.ParseQuery(data), nil
}

func (c *Camera) pickDescription(q driver.Query) (*description.Description, error) {
	if c.config.Description != nil {
		return c.config.Description, nil
	}

	desc, err := description.ForChip(q.Chip)
	if err == nil {
		return desc, nil
	}

	c.warnLog("unknown chip, using v024 description", "chip", q.Chip)
	desc, err = description.Builtin("v024")
	if err != nil {
		return nil, fmt.Errorf("loading default description: %w", err)
	}
	return desc, nil
}

// build creates the driver model for desc. Feature caches start at their
// defaults until the first refresh.
func build(t driver.Transport, desc *description.Description, q driver.Query) (*model, error) {
	pattern := decode.BGGR
	if desc.Pattern != "" {
		p, err := decode.ParsePattern(desc.Pattern)
		if err != nil {
			return nil, err
		}
		pattern = p
	}

	m := &model{
		desc:       desc,
		query:      q,
		monochrome: q.Known && !q.Colour,
		pattern:    pattern,
		features:   make(map[string]*driver.Feature, desc.FeatureCount()),
	}

	for _, rd := range desc.Registers {
		reg := driver.NewRegister(t, rd.Address, desc.AddressSize)
		for _, fd := range rd.Features {
			cfg, err := fd.Config()
			if err != nil {
				return nil, err
			}
			f, err := driver.NewFeature(cfg, reg)
			if err != nil {
				return nil, err
			}
			reg.Initialise(f.Offset(), f.Mask(), f.Default())
			m.features[f.Name()] = f
		}
		m.registers = append(m.registers, reg)
		if !slices.Contains(m.pages, reg.Page()) {
			m.pages = append(m.pages, reg.Page())
		}
	}
	slices.Sort(m.pages)

	m.aliases = driver.NewAliasCollection(m.features, desc.Contexts)
	for _, a := range desc.Aliases {
		if a.Context == nil {
			m.aliases.AddAll(a.Name, a.Feature)
		} else {
			m.aliases.Add(*a.Context, a.Name, a.Feature)
		}
	}

	indices := q.Devices
	if len(indices) == 0 {
		indices = driver.DefaultDevices()
	}
	m.devices = driver.NewDevices(t, indices)

	return m, nil
}

// Refresh reads every register page into the feature cache, trying each page
// up to RefreshAttempts times. It succeeds if at least one page was read.
func (c *Camera) Refresh() error {
	m := c.current()
	if m == nil {
		return ErrNotConfigured
	}

	var refreshed bool
	var lastErr error
	for _, page := range m.pages {
		data, err := c.readPage(page)
		if err != nil {
			c.warnLog("failed to refresh register page", "page", page, "error", err)
			lastErr = err
			continue
		}

		for _, r := range m.registers {
			if r.Page() == page {
				r.RefreshFrom(data)
			}
		}
		c.debugLog("refreshed register page", "page", page)
		refreshed = true
	}

	if !refreshed && len(m.pages) > 0 {
		return fmt.Errorf("%w: %w", ErrRefreshFailed, lastErr)
	}

	m.aliases.Sync()
	c.notifyRefreshed()
	return nil
}

func (c *Camera) readPage(page byte) (data []byte, err error) {
	for i := 0; i < RefreshAttempts; i++ {
		data, err = driver.ReadPage(c.transport, page)
		if err == nil || errors.Is(err, transport.ErrNotConnected) {
			return data, err
		}
	}
	return nil, err
}

// Release drops the claim on the camera.
func (c *Camera) Release() {
	c.transport.Release()
}

// Reset performs a USB port reset.
func (c *Camera) Reset() error {
	return c.transport.Reset()
}

// ResetFirmware asks the camera firmware to reset itself.
func (c *Camera) ResetFirmware() error {
	return c.transport.ResetControl()
}

// ResetChip resets the imaging chip. Register values return to their power-on
// state, so a Refresh should follow.
func (c *Camera) ResetChip() error {
	return driver.ResetChip(c.transport)
}

// List returns serial number to product name for every attached camera.
func (c *Camera) List() (map[string]string, error) {
	return c.transport.List()
}

func (c *Camera) current() *model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// announce delivers a connection edge to consumers, suppressing repeats.
func (c *Camera) announce(connected bool) {
	c.handlersMu.Lock()
	if c.announced == connected {
		c.handlersMu.Unlock()
		return
	}
	c.announced = connected
	handlers := slices.Clone(c.onConnection)
	c.handlersMu.Unlock()

	for _, fn := range handlers {
		fn(connected)
	}
}

func (c *Camera) notifyRefreshed() {
	c.handlersMu.Lock()
	handlers := slices.Clone(c.onRefreshed)
	c.handlersMu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}
