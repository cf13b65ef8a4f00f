package sim

import (
	"sync"
	"time"

	"github.com/psinc/psinc-go/pkg/usb"
)

// Host is a usb.Host exposing simulated cameras.
type Host struct {
	mu      sync.Mutex
	cameras []*Camera
	closed  bool
}

// NewHost creates a host with the given cameras attached.
func NewHost(cameras ...*Camera) *Host {
	return &Host{cameras: cameras}
}

// Attach adds a camera to the bus.
func (h *Host) Attach(c *Camera) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cameras = append(h.cameras, c)
}

// Detach removes a camera from the bus and unplugs it.
func (h *Host) Detach(c *Camera) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, cam := range h.cameras {
		if cam == c {
			h.cameras = append(h.cameras[:i], h.cameras[i+1:]...)
			break
		}
	}
	c.Unplug()
}

// Candidates returns every attached camera. Simulated cameras always carry
// the PSI vendor and product IDs.
func (h *Host) Candidates(vendor, product uint16) ([]usb.Candidate, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, usb.CodeNotFound
	}
	if vendor != usb.VendorID || product != usb.ProductID {
		return nil, nil
	}

	out := make([]usb.Candidate, 0, len(h.cameras))
	for _, c := range h.cameras {
		out = append(out, &candidate{cam: c})
	}
	return out, nil
}

// Close marks the host closed.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

var _ usb.Host = (*Host)(nil)

type candidate struct {
	cam *Camera
}

func (c *candidate) Bus() int {
	return c.cam.cfg.Bus
}

func (c *candidate) Serial() (string, error) {
	return c.cam.cfg.Serial, nil
}

func (c *candidate) Product() (string, error) {
	return c.cam.cfg.Product, nil
}

func (c *candidate) Claim(iface int) (usb.Handle, error) {
	c.cam.mu.Lock()
	defer c.cam.mu.Unlock()

	if c.cam.unplugged {
		return nil, usb.CodeNoDevice
	}
	if iface != usb.Interface {
		return nil, usb.CodeNotFound
	}
	if c.cam.claimed {
		return nil, usb.CodeBusy
	}
	c.cam.claimed = true
	c.cam.pending = nil
	return &handle{cam: c.cam}, nil
}

func (c *candidate) Close() error {
	return nil
}

type handle struct {
	cam  *Camera
	once sync.Once
}

func (h *handle) BulkWrite(endpoint uint8, data []byte, _ time.Duration) (int, error) {
	return h.cam.write(endpoint, data)
}

func (h *handle) BulkRead(endpoint uint8, buf []byte, _ time.Duration) (int, error) {
	return h.cam.read(endpoint, buf)
}

func (h *handle) Control(requestType, request uint8, _, _ uint16, _ []byte) (int, error) {
	return h.cam.control(requestType, request)
}

func (h *handle) Reset() error {
	return h.cam.reset()
}

func (h *handle) Close() error {
	h.once.Do(func() {
		h.cam.mu.Lock()
		h.cam.claimed = false
		h.cam.pending = nil
		h.cam.mu.Unlock()
	})
	return nil
}
