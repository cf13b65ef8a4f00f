package capture

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/psinc/psinc-go/pkg/camera"
	"github.com/psinc/psinc-go/pkg/connection"
	"github.com/psinc/psinc-go/pkg/decode"
	"github.com/psinc/psinc-go/pkg/log"
)

// DefaultSleep is the pause between loop iterations.
const DefaultSleep = time.Millisecond

// ErrClosed is returned when starting an acquirer that has been closed.
var ErrClosed = errors.New("acquirer closed")

// Source is the camera an Acquirer drives. *camera.Camera implements it.
type Source interface {
	Connected() bool
	Connect() error
	Grab(mode camera.CaptureMode, flash byte) (*camera.Frame, error)
	Release()
}

// identity is implemented by sources that can label protocol log events.
type identity interface {
	Serial() string
	ConnectionID() string
}

// Config configures an Acquirer.
type Config struct {
	// Colour selects Bayer colour decoding over Bayer grey. Monochrome
	// sensors ignore it.
	Colour bool

	// Mode is the capture trigger mode.
	Mode camera.CaptureMode

	// Flash is the flash power sent with each capture.
	Flash byte

	// Sleep is the pause at the end of every iteration (default: 1ms).
	// Negative values disable it.
	Sleep time.Duration

	// Order is the channel order of decoded images.
	Order decode.Order

	// Backoff paces reconnection attempts.
	Backoff connection.BackoffConfig

	// Logger is the optional logger for operational messages.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives capture and acquisition state events.
	// If nil, protocol capture is disabled.
	ProtocolLogger log.Logger
}

// DefaultConfig returns grey decoding of normal captures without flash.
func DefaultConfig() Config {
	return Config{
		Mode:    camera.CaptureNormal,
		Sleep:   DefaultSleep,
		Order:   decode.BGR,
		Backoff: connection.DefaultBackoffConfig(),
	}
}

// Stats counts loop activity since the acquirer was created.
type Stats struct {
	Iterations int
	Frames     int
	Failures   int
	Connects   int
}

// Acquirer runs the capture loop for one source.
type Acquirer struct {
	source  Source
	logger  *slog.Logger
	plog    log.Logger
	backoff *connection.Backoff

	mu      sync.Mutex
	gate    *sync.Cond
	config  Config
	started bool
	paused  bool
	closed  bool
	stats   Stats
	exit    chan struct{}
	wg      sync.WaitGroup

	handlersMu sync.Mutex
	onAcquired []func(*decode.Image)
}

// New creates a stopped acquirer for source.
func New(source Source, config Config) *Acquirer {
	if config.Sleep == 0 {
		config.Sleep = DefaultSleep
	}

	plog := config.ProtocolLogger
	if plog == nil {
		plog = log.NoopLogger{}
	}

	a := &Acquirer{
		source:  source,
		logger:  config.Logger,
		plog:    plog,
		backoff: connection.NewBackoffWithConfig(config.Backoff),
		config:  config,
		exit:    make(chan struct{}),
	}
	a.gate = sync.NewCond(&a.mu)
	return a
}

// OnAcquired registers a callback receiving the result of every iteration:
// the decoded image, or nil when no image was produced. Callbacks run on the
// capture goroutine.
func (a *Acquirer) OnAcquired(fn func(*decode.Image)) {
	a.handlersMu.Lock()
	defer a.handlersMu.Unlock()
	a.onAcquired = append(a.onAcquired, fn)
}

// Start launches the capture goroutine. Starting a running acquirer does
// nothing.
func (a *Acquirer) Start() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	if a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = true
	a.wg.Add(1)
	go a.run()
	a.mu.Unlock()

	a.logState("stopped", "running", "start")
	a.infoLog("acquisition started")
	return nil
}

// Pause stops communication with the camera after the current iteration.
// It has no effect once the acquirer is closing.
func (a *Acquirer) Pause() {
	a.mu.Lock()
	changed := !a.closed && !a.paused
	if changed {
		a.paused = true
	}
	a.mu.Unlock()

	if changed {
		a.logState("running", "paused", "")
	}
}

// Resume releases a paused loop.
func (a *Acquirer) Resume() {
	a.mu.Lock()
	changed := a.paused
	if changed {
		a.paused = false
		a.gate.Broadcast()
	}
	a.mu.Unlock()

	if changed {
		a.logState("paused", "running", "")
	}
}

// Paused reports whether the loop is held at the pause gate.
func (a *Acquirer) Paused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

// Running reports whether the capture goroutine has been started and not
// closed.
func (a *Acquirer) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started && !a.closed
}

// Close stops the loop, waits for the iteration in flight and releases the
// source. It is safe to call more than once.
func (a *Acquirer) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.paused = false
	started := a.started
	close(a.exit)
	a.gate.Broadcast()
	a.mu.Unlock()

	a.wg.Wait()
	a.source.Release()

	if started {
		a.logState("running", "stopped", "close")
		a.infoLog("acquisition stopped")
	}
}

// SetColour selects colour or grey decoding for Bayer sensors.
func (a *Acquirer) SetColour(colour bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config.Colour = colour
}

// SetMode changes the capture trigger mode.
func (a *Acquirer) SetMode(mode camera.CaptureMode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config.Mode = mode
}

// SetFlash changes the flash power.
func (a *Acquirer) SetFlash(flash byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config.Flash = flash
}

// SetSleep changes the pause between iterations.
func (a *Acquirer) SetSleep(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config.Sleep = d
}

// Config returns the current loop settings.
func (a *Acquirer) Config() Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.config
}

// Stats returns the loop counters.
func (a *Acquirer) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

func (a *Acquirer) run() {
	defer a.wg.Done()

	for !a.exiting() {
		img := a.iterate()
		a.notifyAcquired(img)

		if !a.sleep() {
			return
		}
		a.wait()
	}
}

// iterate performs one connect or grab step. Without subscribers the camera
// is left alone.
func (a *Acquirer) iterate() *decode.Image {
	if !a.subscribed() {
		return nil
	}

	config := a.Config()
	a.count(func(s *Stats) { s.Iterations++ })

	if !a.source.Connected() {
		a.connect()
		return nil
	}

	start := time.Now()
	frame, err := a.source.Grab(config.Mode, config.Flash)
	if err != nil {
		a.count(func(s *Stats) { s.Failures++ })
		a.debugLog("grab failed", "mode", config.Mode, "error", err)
		return nil
	}

	img, err := frame.Decode(config.Colour, config.Order)
	if err != nil {
		a.count(func(s *Stats) { s.Failures++ })
		a.debugLog("decode failed", "width", frame.Width, "height", frame.Height, "error", err)
		return nil
	}

	a.count(func(s *Stats) { s.Frames++ })
	a.logCapture(frame, img, frame.ColourMode(config.Colour), time.Since(start))
	return img
}

func (a *Acquirer) connect() {
	if err := a.source.Connect(); err != nil {
		a.debugLog("connect failed", "error", err, "attempt", a.backoff.Attempts()+1)
		a.backoff.Wait(a.exit)
		return
	}

	a.backoff.Reset()
	a.count(func(s *Stats) { s.Connects++ })
	a.infoLog("camera connected")
}

// sleep waits the configured interval. It returns false when the acquirer
// is closing.
func (a *Acquirer) sleep() bool {
	d := a.Config().Sleep
	if d <= 0 {
		return !a.exiting()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-a.exit:
		return false
	case <-timer.C:
		return true
	}
}

// wait blocks at the pause gate.
func (a *Acquirer) wait() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for a.paused && !a.closed {
		a.gate.Wait()
	}
}

func (a *Acquirer) exiting() bool {
	select {
	case <-a.exit:
		return true
	default:
		return false
	}
}

func (a *Acquirer) count(fn func(*Stats)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.stats)
}

func (a *Acquirer) subscribed() bool {
	a.handlersMu.Lock()
	defer a.handlersMu.Unlock()
	return len(a.onAcquired) > 0
}

func (a *Acquirer) notifyAcquired(img *decode.Image) {
	a.handlersMu.Lock()
	handlers := slices.Clone(a.onAcquired)
	a.handlersMu.Unlock()

	for _, fn := range handlers {
		fn(img)
	}
}
