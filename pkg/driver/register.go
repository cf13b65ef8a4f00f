package driver

import (
	"fmt"
	"sync"

	"github.com/psinc/psinc-go/pkg/transport"
)

// PageSize is the number of bytes returned by a register page read.
const PageSize = 512

// Register is a cached 16-bit sensor register.
type Register struct {
	t       Transport
	address uint16
	page    byte
	offset  int

	mu    sync.RWMutex
	value uint16
}

// NewRegister creates a register. addressSize is the number of page bytes
// per address step (2 when each address holds one 16-bit register, 1 when
// addresses are byte offsets); zero selects 2.
func NewRegister(t Transport, address uint16, addressSize int) *Register {
	if addressSize <= 0 {
		addressSize = 2
	}
	mask := uint16(0x1ff / addressSize)

	return &Register{
		t:       t,
		address: address,
		page:    byte((address &^ mask) >> 8),
		offset:  addressSize * int(address&mask),
	}
}

// Address returns the register address.
func (r *Register) Address() uint16 {
	return r.address
}

// Page returns the register page this register is read from.
func (r *Register) Page() byte {
	return r.page
}

// Offset returns the byte offset of the register within its page.
func (r *Register) Offset() int {
	return r.offset
}

// Value returns the cached value.
func (r *Register) Value() uint16 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Write caches value and writes it to the camera.
func (r *Register) Write(value uint16) error {
	r.mu.Lock()
	r.value = value
	r.mu.Unlock()

	return r.write(value)
}

// Update replaces the bits selected by mask with bits and writes the merged
// value. The merge happens atomically against the cache, so concurrent
// updates of different fields are not lost.
func (r *Register) Update(mask, bits uint16) error {
	r.mu.Lock()
	value := (r.value &^ mask) | (bits & mask)
	r.value = value
	r.mu.Unlock()

	return r.write(value)
}

func (r *Register) write(value uint16) error {
	return r.t.Command([]byte{
		byte(transport.OpWriteRegister),
		byte(r.address), byte(r.address >> 8),
		byte(value), byte(value >> 8),
	}, nil)
}

// SetBit caches a single bit and writes it to the camera.
func (r *Register) SetBit(offset int, on bool) error {
	bit := uint16(1) << offset
	state := byte(0)

	r.mu.Lock()
	if on {
		r.value |= bit
		state = 1
	} else {
		r.value &^= bit
	}
	r.mu.Unlock()

	return r.t.Command([]byte{
		byte(transport.OpWriteBit),
		byte(r.address), byte(r.address >> 8),
		byte(offset), state,
	}, nil)
}

// Initialise seeds the bits selected by mask without talking to the camera.
func (r *Register) Initialise(offset int, mask uint16, value int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = (r.value &^ mask) | (uint16(value<<offset) & mask)
}

// Refresh reads the register through the queued-read path.
func (r *Register) Refresh() error {
	buf := make([]byte, 5)
	err := r.t.CommandFlush([]byte{
		byte(transport.OpQueueRegister),
		byte(r.address), byte(r.address >> 8),
		0, 0,
	}, buf, true)
	if err != nil {
		return err
	}
	if buf[0] != 0x01 {
		return fmt.Errorf("%w: register 0x%04x answer %x", ErrInvalidResponse, r.address, buf)
	}

	r.mu.Lock()
	r.value = uint16(buf[4])<<8 | uint16(buf[3])
	r.mu.Unlock()
	return nil
}

// RefreshFrom updates the cache from a page read. Pages too short to hold
// the register leave the cache untouched.
func (r *Register) RefreshFrom(page []byte) {
	if r.offset >= len(page)-1 {
		return
	}

	r.mu.Lock()
	r.value = uint16(page[r.offset])<<8 | uint16(page[r.offset+1])
	r.mu.Unlock()
}

// ReadPage reads one register page.
func ReadPage(t Transport, page byte) ([]byte, error) {
	buf := make([]byte, PageSize)
	if err := t.Command([]byte{byte(transport.OpReadRegisterPage), page}, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ResetChip asks the camera to reset the imaging chip.
func ResetChip(t Transport) error {
	return t.Command([]byte{byte(transport.OpResetChip)}, nil)
}
