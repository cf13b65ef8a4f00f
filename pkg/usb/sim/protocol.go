package sim

import (
	"time"

	"github.com/psinc/psinc-go/pkg/usb"
)

// Opcodes understood by the simulation.
const (
	opCapture             = 0x00
	opSlaveCaptureRising  = 0x01
	opResetChip           = 0x02
	opFlush               = 0x03
	opMasterCapture       = 0x04
	opSlaveCaptureFalling = 0x05
	opWriteRegister       = 0x10
	opWriteBit            = 0x11
	opQueueRegister       = 0x12
	opReadRegisterPage    = 0x13
	opWriteDevice         = 0x20
	opQueueDevice         = 0x21
	opInitialiseDevice    = 0x22
	opWriteDeviceBlock    = 0x23

	queryIndex = 0xff

	// Vendor control request asking the firmware to reset.
	controlResetType    = 0x40
	controlResetRequest = 0xf2
)

const headerSize = 5

func (c *Camera) write(endpoint uint8, data []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unplugged {
		return 0, usb.CodeNoDevice
	}
	if c.failWrites > 0 {
		c.failWrites--
		return 0, c.failCode
	}
	if endpoint != usb.WriteEndpoint {
		return 0, usb.CodeInvalidParameter
	}

	c.frames = append(c.frames, append([]byte(nil), data...))

	// Frames that are not terminated are ignored by the firmware.
	if len(data) < headerSize+2 || data[len(data)-1] != 0xff {
		return len(data), nil
	}

	switch op := data[headerSize]; {
	case op == opWriteDeviceBlock:
		c.block(data)
	case op == opFlush && len(data) == 16:
		c.queued(data[10:15])
	default:
		c.command(data[headerSize : len(data)-1])
	}
	return len(data), nil
}

func (c *Camera) command(cmd []byte) {
	cmd = pad(cmd, 5)

	switch cmd[0] {
	case opCapture, opSlaveCaptureRising, opMasterCapture, opSlaveCaptureFalling:
		size := int(cmd[2]) | int(cmd[3])<<8 | int(cmd[4])<<16
		c.captures++
		c.pending = append(c.pending, c.cfg.Scene(c.captures, size))

	case opResetChip:
		c.chipResets++

	case opWriteRegister:
		addr := uint16(cmd[1]) | uint16(cmd[2])<<8
		c.registers[addr] = uint16(cmd[3]) | uint16(cmd[4])<<8

	case opWriteBit:
		addr := uint16(cmd[1]) | uint16(cmd[2])<<8
		bit := uint16(1) << cmd[3]
		if cmd[4] != 0 {
			c.registers[addr] |= bit
		} else {
			c.registers[addr] &^= bit
		}

	case opReadRegisterPage:
		c.pending = append(c.pending, c.page(cmd[1]))

	case opWriteDevice:
		c.storage[cmd[1]] = []byte{cmd[2]}

	case opInitialiseDevice:
		c.inits[cmd[1]] = cmd[2]
	}
}

func (c *Camera) queued(cmd []byte) {
	switch cmd[0] {
	case opQueueRegister:
		addr := uint16(cmd[1]) | uint16(cmd[2])<<8
		v := c.registers[addr]
		c.pending = append(c.pending, []byte{0x01, cmd[1], cmd[2], byte(v), byte(v >> 8)})

	case opQueueDevice:
		index := cmd[1]
		payload := c.storage[index]
		if index == queryIndex {
			payload = c.query()
		}
		resp := make([]byte, 4+len(payload))
		resp[0] = 0x00
		resp[1] = index
		resp[2] = byte(len(payload))
		resp[3] = byte(len(payload) >> 8)
		copy(resp[4:], payload)
		c.pending = append(c.pending, resp)
	}
}

func (c *Camera) block(data []byte) {
	if len(data) < 11 {
		return
	}
	index := data[6]
	size := int(data[7]) | int(data[8])<<8 | int(data[9])<<16
	end := 10 + size
	if end > len(data)-1 {
		end = len(data) - 1
	}
	c.storage[index] = append([]byte(nil), data[10:end]...)
}

// query builds the Query device payload: header length, chip, colour flag,
// device count and device list.
func (c *Camera) query() []byte {
	colour := byte(1)
	if c.cfg.Monochrome {
		colour = 0
	}
	q := []byte{2, c.cfg.Chip, colour, byte(len(c.cfg.Devices))}
	return append(q, c.cfg.Devices...)
}

// page lays out the registers of one page big-endian at their page offset.
func (c *Camera) page(page byte) []byte {
	data := make([]byte, pageSize)
	mask := uint16(0x1ff / c.cfg.AddressSize)

	for addr, v := range c.registers {
		if byte((addr&^mask)>>8) != page {
			continue
		}
		offset := c.cfg.AddressSize * int(addr&mask)
		if offset+1 >= len(data) {
			continue
		}
		data[offset] = byte(v >> 8)
		data[offset+1] = byte(v)
	}
	return data
}

func (c *Camera) read(endpoint uint8, buf []byte) (int, error) {
	c.mu.Lock()
	delay := c.delay
	c.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unplugged {
		return 0, usb.CodeNoDevice
	}
	if c.failReads > 0 {
		c.failReads--
		return 0, c.failCode
	}
	if endpoint != usb.ReadEndpoint {
		return 0, usb.CodeInvalidParameter
	}
	if len(c.pending) == 0 {
		return 0, usb.CodeTimeout
	}

	resp := c.pending[0]
	c.pending = c.pending[1:]

	n := copy(buf, resp)
	if c.shortReads > 0 {
		c.shortReads--
		n /= 2
	}
	if len(resp) > len(buf) {
		return n, usb.CodeOverflow
	}
	return n, nil
}

func (c *Camera) control(requestType, request uint8) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unplugged {
		return 0, usb.CodeNoDevice
	}
	if requestType == controlResetType && request == controlResetRequest {
		c.resets++
		c.pending = nil
		return 0, nil
	}
	return 0, usb.CodePipe
}

func (c *Camera) reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unplugged {
		return usb.CodeNoDevice
	}
	if c.failReset != usb.CodeSuccess {
		code := c.failReset
		c.failReset = usb.CodeSuccess
		return code
	}
	c.resets++
	c.pending = nil
	return nil
}

func pad(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}
