package usb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/gousb"
)

// gousbHost is a Host backed by libusb through gousb.
type gousbHost struct {
	ctx *gousb.Context
}

// NewHost opens a libusb context.
func NewHost() Host {
	return &gousbHost{ctx: gousb.NewContext()}
}

// Candidates opens every device matching vendor and product.
func (h *gousbHost) Candidates(vendor, product uint16) ([]Candidate, error) {
	devs, err := h.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == gousb.ID(vendor) && desc.Product == gousb.ID(product)
	})

	// OpenDevices reports the first open failure but still returns the
	// devices it could open.
	candidates := make([]Candidate, 0, len(devs))
	for _, d := range devs {
		candidates = append(candidates, &gousbCandidate{dev: d})
	}
	if err != nil && len(candidates) == 0 {
		return nil, fmt.Errorf("enumerate %04x:%04x: %w", vendor, product, err)
	}
	return candidates, nil
}

// Close releases the libusb context.
func (h *gousbHost) Close() error {
	return h.ctx.Close()
}

type gousbCandidate struct {
	dev *gousb.Device
}

func (c *gousbCandidate) Bus() int {
	return c.dev.Desc.Bus
}

func (c *gousbCandidate) Serial() (string, error) {
	return c.dev.SerialNumber()
}

func (c *gousbCandidate) Product() (string, error) {
	return c.dev.Product()
}

func (c *gousbCandidate) Claim(iface int) (Handle, error) {
	// Kernel drivers are not expected on a vendor interface, but detach
	// them if the platform bound one.
	_ = c.dev.SetAutoDetach(true)

	cfg, err := c.dev.Config(1)
	if err != nil {
		return nil, fmt.Errorf("select configuration: %w", err)
	}
	intf, err := cfg.Interface(iface, 0)
	if err != nil {
		cfg.Close()
		return nil, fmt.Errorf("claim interface %d: %w", iface, err)
	}

	return &gousbHandle{
		dev:  c.dev,
		cfg:  cfg,
		intf: intf,
		in:   make(map[uint8]*gousb.InEndpoint),
		out:  make(map[uint8]*gousb.OutEndpoint),
	}, nil
}

func (c *gousbCandidate) Close() error {
	return c.dev.Close()
}

type gousbHandle struct {
	mu   sync.Mutex
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	in   map[uint8]*gousb.InEndpoint
	out  map[uint8]*gousb.OutEndpoint
}

func (h *gousbHandle) outEndpoint(addr uint8) (*gousb.OutEndpoint, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ep, ok := h.out[addr]; ok {
		return ep, nil
	}
	ep, err := h.intf.OutEndpoint(int(addr & 0x0f))
	if err != nil {
		return nil, err
	}
	h.out[addr] = ep
	return ep, nil
}

func (h *gousbHandle) inEndpoint(addr uint8) (*gousb.InEndpoint, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ep, ok := h.in[addr]; ok {
		return ep, nil
	}
	ep, err := h.intf.InEndpoint(int(addr & 0x0f))
	if err != nil {
		return nil, err
	}
	h.in[addr] = ep
	return ep, nil
}

func (h *gousbHandle) BulkWrite(endpoint uint8, data []byte, timeout time.Duration) (int, error) {
	ep, err := h.outEndpoint(endpoint)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return ep.WriteContext(ctx, data)
}

func (h *gousbHandle) BulkRead(endpoint uint8, buf []byte, timeout time.Duration) (int, error) {
	ep, err := h.inEndpoint(endpoint)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return ep.ReadContext(ctx, buf)
}

func (h *gousbHandle) Control(requestType, request uint8, value, index uint16, data []byte) (int, error) {
	return h.dev.Control(requestType, request, value, index, data)
}

func (h *gousbHandle) Reset() error {
	return h.dev.Reset()
}

func (h *gousbHandle) Close() error {
	h.intf.Close()
	cfgErr := h.cfg.Close()
	devErr := h.dev.Close()
	return errors.Join(cfgErr, devErr)
}

// backendCode maps gousb errors and transfer statuses to libusb codes.
func backendCode(err error) (Code, bool) {
	var ge gousb.Error
	if errors.As(err, &ge) {
		switch ge {
		case gousb.ErrorIO:
			return CodeIO, true
		case gousb.ErrorInvalidParam:
			return CodeInvalidParameter, true
		case gousb.ErrorAccess:
			return CodeAccess, true
		case gousb.ErrorNoDevice:
			return CodeNoDevice, true
		case gousb.ErrorNotFound:
			return CodeNotFound, true
		case gousb.ErrorBusy:
			return CodeBusy, true
		case gousb.ErrorTimeout:
			return CodeTimeout, true
		case gousb.ErrorOverflow:
			return CodeOverflow, true
		case gousb.ErrorPipe:
			return CodePipe, true
		case gousb.ErrorInterrupted:
			return CodeInterrupted, true
		case gousb.ErrorNoMem:
			return CodeNoMemory, true
		case gousb.ErrorNotSupported:
			return CodeNotSupported, true
		default:
			return CodeOther, true
		}
	}

	var ts gousb.TransferStatus
	if errors.As(err, &ts) {
		switch ts {
		case gousb.TransferTimedOut, gousb.TransferCancelled:
			return CodeTimeout, true
		case gousb.TransferNoDevice:
			return CodeNoDevice, true
		case gousb.TransferStall:
			return CodePipe, true
		case gousb.TransferOverflow:
			return CodeOverflow, true
		case gousb.TransferError:
			return CodeIO, true
		default:
			return CodeOther, true
		}
	}
	return 0, false
}
