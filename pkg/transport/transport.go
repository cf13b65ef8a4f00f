package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/psinc/psinc-go/pkg/log"
	"github.com/psinc/psinc-go/pkg/usb"
)

// Transport errors.
var (
	// ErrNotConnected indicates a transfer without a claimed camera.
	ErrNotConnected = errors.New("not connected")

	// ErrNoDevice indicates that no attached camera matched the filters.
	ErrNoDevice = errors.New("no matching camera")

	// ErrShortTransfer indicates a transfer that moved fewer bytes than required.
	ErrShortTransfer = errors.New("short transfer")

	// ErrInvalidPattern indicates a serial filter that is not a valid regular expression.
	ErrInvalidPattern = errors.New("invalid serial pattern")
)

// Error describes a transfer that failed after all attempts.
type Error struct {
	// Op is the failed operation ("write", "read", "reset", "control").
	Op string

	// Code is the libusb error code of the last attempt.
	Code usb.Code
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Code)
}

// Unwrap exposes the usb.Code so errors.Is(err, usb.CodeNoDevice) works.
func (e *Error) Unwrap() error {
	return e.Code
}

// Config configures a Transport.
type Config struct {
	// Host enumerates and opens cameras. Required.
	Host usb.Host

	// Timeout applies to each bulk transfer attempt (default: 200ms).
	Timeout time.Duration

	// Attempts is the number of tries per transfer direction (default: 4).
	Attempts int

	// Logger is the optional logger for operational messages.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives frame, state and error events.
	// If nil, protocol capture is disabled.
	ProtocolLogger log.Logger
}

// DefaultConfig returns the default transport configuration for host.
func DefaultConfig(host usb.Host) Config {
	return Config{
		Host:     host,
		Timeout:  200 * time.Millisecond,
		Attempts: 4,
	}
}

// Transport owns the claim on one camera and serialises every transfer.
// It is safe for concurrent use.
type Transport struct {
	config Config
	logger *slog.Logger
	plog   log.Logger

	// mu guards the claim and serialises transfers.
	mu        sync.Mutex
	handle    usb.Handle
	serial    string
	connID    string
	lastError string

	handlersMu        sync.Mutex
	onConnection      []func(connected bool)
	onTransferFailure []func(code string)
}

// New creates a disconnected Transport.
func New(config Config) *Transport {
	if config.Timeout <= 0 {
		config.Timeout = 200 * time.Millisecond
	}
	if config.Attempts <= 0 {
		config.Attempts = 4
	}

	plog := config.ProtocolLogger
	if plog == nil {
		plog = log.NoopLogger{}
	}

	return &Transport{
		config: config,
		logger: config.Logger,
		plog:   plog,
	}
}

// OnConnectionChanged registers a callback for connection edges.
// Callbacks run synchronously, outside the transport lock, in registration order.
func (t *Transport) OnConnectionChanged(fn func(connected bool)) {
	t.handlersMu.Lock()
	defer t.handlersMu.Unlock()
	t.onConnection = append(t.onConnection, fn)
}

// OnTransferError registers a callback receiving the libusb error name of
// each failed transfer.
func (t *Transport) OnTransferError(fn func(code string)) {
	t.handlersMu.Lock()
	defer t.handlersMu.Unlock()
	t.onTransferFailure = append(t.onTransferFailure, fn)
}

// Connected reports whether a camera is claimed.
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handle != nil
}

// Serial returns the serial number of the claimed camera, or "" when disconnected.
func (t *Transport) Serial() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.serial
}

// ConnectionID returns the protocol log identifier of the current claim.
func (t *Transport) ConnectionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connID
}

// LastError returns the name of the last transfer failure.
func (t *Transport) LastError() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastError
}

// Connect claims the first attached camera on bus (0 for any) whose serial
// number matches the regular expression serial ("" for any). Any existing
// claim is released first without notification.
func (t *Transport) Connect(serial string, bus int) error {
	var pattern *regexp.Regexp
	if serial != "" {
		p, err := regexp.Compile(serial)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		pattern = p
	}

	t.mu.Lock()
	was := t.handle != nil
	t.release()
	err := t.claim(pattern, bus)
	now := t.handle != nil
	if now {
		t.logState("disconnected", "connected", "claimed")
	} else if was {
		t.logState("connected", "disconnected", "reconnect failed")
	}
	t.mu.Unlock()

	if was != now {
		t.notifyConnection(now)
	}
	return err
}

// claim must be called with mu held.
func (t *Transport) claim(pattern *regexp.Regexp, bus int) error {
	candidates, err := t.config.Host.Candidates(usb.VendorID, usb.ProductID)
	if err != nil {
		if len(candidates) == 0 {
			return fmt.Errorf("enumerate: %w", err)
		}
		t.warnLog("enumeration incomplete", "error", err)
	}

	for _, c := range candidates {
		if t.handle != nil {
			c.Close()
			continue
		}
		if bus != 0 && c.Bus() != bus {
			c.Close()
			continue
		}

		sn, err := c.Serial()
		if err != nil {
			t.debugLog("skipping camera without serial", "bus", c.Bus(), "error", err)
			c.Close()
			continue
		}
		if pattern != nil && !pattern.MatchString(sn) {
			c.Close()
			continue
		}

		h, err := c.Claim(usb.Interface)
		if err != nil {
			t.debugLog("claim failed", "serial", sn, "error", err)
			c.Close()
			continue
		}

		t.handle = h
		t.serial = sn
		t.connID = uuid.New().String()
		t.infoLog("camera claimed", "serial", sn, "bus", c.Bus(), "conn_id", t.connID)
	}

	if t.handle == nil {
		return ErrNoDevice
	}
	return nil
}

// Release drops the claim. It is idempotent and fires ConnectionChanged(false)
// only if a camera was claimed.
func (t *Transport) Release() {
	t.mu.Lock()
	was := t.handle != nil
	if was {
		t.logState("connected", "disconnected", "released")
	}
	t.release()
	t.mu.Unlock()

	if was {
		t.notifyConnection(false)
	}
}

// release must be called with mu held.
func (t *Transport) release() {
	if t.handle == nil {
		return
	}
	if err := t.handle.Close(); err != nil {
		t.debugLog("close failed", "serial", t.serial, "error", err)
	}
	t.handle = nil
	t.serial = ""
}

// Command sends a simple frame and reads len(receive) bytes into receive.
// A nil receive buffer skips the read.
func (t *Transport) Command(cmd, receive []byte) error {
	frame, err := Frame(cmd)
	if err != nil {
		return err
	}
	return t.Transfer(frame, receive, true)
}

// CommandFlush sends cmd behind a flush directive. With checkLength false the
// read accepts any response size up to len(receive).
func (t *Transport) CommandFlush(cmd, receive []byte, checkLength bool) error {
	frame, err := FlushFrame(cmd)
	if err != nil {
		return err
	}
	return t.Transfer(frame, receive, checkLength)
}

// Transfer writes send and then reads into receive.
func (t *Transport) Transfer(send, receive []byte, checkLength bool) error {
	_, err := t.TransferN(send, receive, checkLength)
	return err
}

// TransferN writes send and then reads into receive, returning the number of
// bytes received. Each direction is retried up to Attempts times. A failure
// that exhausts the attempts drops the connection.
func (t *Transport) TransferN(send, receive []byte, checkLength bool) (int, error) {
	t.mu.Lock()
	n, code, dropped, err := t.transfer(send, receive, checkLength)
	t.mu.Unlock()

	if code != "" {
		t.notifyTransferError(code)
	}
	if dropped {
		t.notifyConnection(false)
	}
	return n, err
}

// transfer must be called with mu held. It returns the error name to report
// and whether the connection was dropped.
func (t *Transport) transfer(send, receive []byte, checkLength bool) (int, string, bool, error) {
	if t.handle == nil {
		return 0, "", false, ErrNotConnected
	}

	op, flush, hasOp := opcodeOf(send)

	n, code := t.attempt(func() (int, error) {
		return t.handle.BulkWrite(usb.WriteEndpoint, send, t.config.Timeout)
	})
	if code != usb.CodeSuccess {
		return 0, code.String(), true, t.fail("write", code)
	}
	t.logFrame(log.DirectionOut, send, op, flush, hasOp)
	if n != len(send) {
		t.logError(fmt.Sprintf("wrote %d of %d bytes", n, len(send)), nil, "bulk write")
		return n, "", false, fmt.Errorf("%w: wrote %d of %d bytes", ErrShortTransfer, n, len(send))
	}

	if len(receive) == 0 {
		return 0, "", false, nil
	}

	n, code = t.attempt(func() (int, error) {
		return t.handle.BulkRead(usb.ReadEndpoint, receive, t.config.Timeout)
	})
	if code != usb.CodeSuccess {
		return 0, code.String(), true, t.fail("read", code)
	}
	t.logFrame(log.DirectionIn, receive[:n], op, false, hasOp)
	if checkLength && n != len(receive) {
		t.logError(fmt.Sprintf("read %d of %d bytes", n, len(receive)), nil, "bulk read")
		return n, "", false, fmt.Errorf("%w: read %d of %d bytes", ErrShortTransfer, n, len(receive))
	}
	return n, "", false, nil
}

// attempt runs fn up to Attempts times. NoDevice waits half a timeout and
// stops retrying.
func (t *Transport) attempt(fn func() (int, error)) (int, usb.Code) {
	code := usb.CodeOther
	for i := 0; i < t.config.Attempts; i++ {
		n, err := fn()
		code = usb.CodeOf(err)
		if code == usb.CodeSuccess {
			return n, code
		}
		if code == usb.CodeNoDevice {
			time.Sleep(t.config.Timeout / 2)
			break
		}
		t.debugLog("transfer attempt failed", "attempt", i+1, "code", code)
	}
	return 0, code
}

// fail drops the connection after an unrecoverable transfer error.
// Must be called with mu held.
func (t *Transport) fail(op string, code usb.Code) error {
	t.lastError = code.String()
	c := int(code)
	t.logError(code.String(), &c, "bulk "+op)
	t.logState("connected", "disconnected", code.String())
	t.warnLog("transfer failed, dropping connection", "op", op, "code", code, "serial", t.serial)
	t.release()
	return &Error{Op: op, Code: code}
}

// Reset performs a USB port reset. On failure the connection is dropped.
func (t *Transport) Reset() error {
	t.mu.Lock()
	if t.handle == nil {
		t.mu.Unlock()
		return ErrNotConnected
	}

	var dropped bool
	var result error
	if err := t.handle.Reset(); err != nil {
		code := usb.CodeOf(err)
		t.lastError = code.String()
		t.logState("connected", "disconnected", "reset: "+code.String())
		t.release()
		dropped = true
		result = &Error{Op: "reset", Code: code}
	}
	t.mu.Unlock()

	if dropped {
		t.notifyConnection(false)
	}
	return result
}

// Firmware reset control request.
const (
	resetRequestType = 0x40
	resetRequest     = 0xf2
)

// ResetControl asks the camera firmware to reset itself.
func (t *Transport) ResetControl() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.handle == nil {
		return ErrNotConnected
	}
	if _, err := t.handle.Control(resetRequestType, resetRequest, 0, 0, nil); err != nil {
		return &Error{Op: "control", Code: usb.CodeOf(err)}
	}
	return nil
}

// List returns serial number to product name for every attached camera.
// Cameras whose descriptors cannot be read are skipped.
func (t *Transport) List() (map[string]string, error) {
	candidates, err := t.config.Host.Candidates(usb.VendorID, usb.ProductID)
	if err != nil && len(candidates) == 0 {
		return nil, fmt.Errorf("enumerate: %w", err)
	}

	out := make(map[string]string, len(candidates))
	for _, c := range candidates {
		sn, err := c.Serial()
		if err == nil {
			product, _ := c.Product()
			out[sn] = product
		}
		c.Close()
	}
	return out, nil
}

func (t *Transport) notifyConnection(connected bool) {
	t.handlersMu.Lock()
	handlers := append([]func(bool){}, t.onConnection...)
	t.handlersMu.Unlock()

	for _, fn := range handlers {
		fn(connected)
	}
}

func (t *Transport) notifyTransferError(code string) {
	t.handlersMu.Lock()
	handlers := append([]func(string){}, t.onTransferFailure...)
	t.handlersMu.Unlock()

	for _, fn := range handlers {
		fn(code)
	}
}
