package transport

import (
	"errors"
	"fmt"
)

// Opcode is the first byte of a camera command.
type Opcode uint8

// Command opcodes understood by the camera firmware.
const (
	OpCapture             Opcode = 0x00
	OpSlaveCaptureRising  Opcode = 0x01
	OpResetChip           Opcode = 0x02
	OpFlush               Opcode = 0x03
	OpMasterCapture       Opcode = 0x04
	OpSlaveCaptureFalling Opcode = 0x05
	OpWriteRegister       Opcode = 0x10
	OpWriteBit            Opcode = 0x11
	OpQueueRegister       Opcode = 0x12
	OpReadRegisterPage    Opcode = 0x13
	OpWriteDevice         Opcode = 0x20
	OpQueueDevice         Opcode = 0x21
	OpInitialiseDevice    Opcode = 0x22
	OpWriteDeviceBlock    Opcode = 0x23
)

var opcodeNames = map[Opcode]string{
	OpCapture:             "Capture",
	OpSlaveCaptureRising:  "SlaveCaptureRising",
	OpResetChip:           "ResetChip",
	OpFlush:               "Flush",
	OpMasterCapture:       "MasterCapture",
	OpSlaveCaptureFalling: "SlaveCaptureFalling",
	OpWriteRegister:       "WriteRegister",
	OpWriteBit:            "WriteBit",
	OpQueueRegister:       "QueueRegister",
	OpReadRegisterPage:    "ReadRegisterPage",
	OpWriteDevice:         "WriteDevice",
	OpQueueDevice:         "QueueDevice",
	OpInitialiseDevice:    "InitialiseDevice",
	OpWriteDeviceBlock:    "WriteDeviceBlock",
}

// String returns the opcode name.
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(0x%02x)", uint8(o))
}

// Framing constants.
const (
	// HeaderSize is the number of zero bytes that open every frame.
	HeaderSize = 5

	// MaxCommandSize is the largest command a simple or flush frame carries.
	MaxCommandSize = 5

	// Terminator closes every frame.
	Terminator byte = 0xff

	// MaxBlockSize is the largest payload a block write can describe.
	MaxBlockSize = 1<<24 - 1

	// FrameSize and FlushFrameSize are the fixed lengths of simple and flush
	// frames. Unused command bytes stay zero.
	FrameSize      = HeaderSize + MaxCommandSize + 1
	FlushFrameSize = 2*HeaderSize + MaxCommandSize + 1
)

// Framing errors.
var (
	// ErrCommandTooLong indicates a command longer than MaxCommandSize.
	ErrCommandTooLong = errors.New("command too long")

	// ErrBlockTooLarge indicates a block payload that does not fit 24 bits.
	ErrBlockTooLarge = errors.New("block too large")
)

// Frame wraps a command as [00×5, command padded to 5 bytes, FF].
func Frame(cmd []byte) ([]byte, error) {
	if len(cmd) > MaxCommandSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrCommandTooLong, len(cmd), MaxCommandSize)
	}

	frame := make([]byte, FrameSize)
	copy(frame[HeaderSize:], cmd)
	frame[FrameSize-1] = Terminator
	return frame, nil
}

// FlushFrame wraps a command behind a flush directive so the camera discards
// stale queued responses before answering:
// [00×5, 03 00 00 00 00, command padded to 5 bytes, FF].
func FlushFrame(cmd []byte) ([]byte, error) {
	if len(cmd) > MaxCommandSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrCommandTooLong, len(cmd), MaxCommandSize)
	}

	frame := make([]byte, FlushFrameSize)
	frame[HeaderSize] = byte(OpFlush)
	copy(frame[2*HeaderSize:], cmd)
	frame[FlushFrameSize-1] = Terminator
	return frame, nil
}

// BlockFrame builds a device block write:
// [00×5, 23, index, sizeLo, sizeMid, sizeHi, payload, FF].
func BlockFrame(index byte, payload []byte) ([]byte, error) {
	size := len(payload)
	if size > MaxBlockSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrBlockTooLarge, size)
	}

	frame := make([]byte, HeaderSize, HeaderSize+5+size+1)
	frame = append(frame, byte(OpWriteDeviceBlock), index, byte(size), byte(size>>8), byte(size>>16))
	frame = append(frame, payload...)
	return append(frame, Terminator), nil
}

// opcodeOf extracts the opcode from a frame built by this package.
func opcodeOf(frame []byte) (Opcode, bool, bool) {
	if len(frame) <= HeaderSize+1 {
		return 0, false, false
	}
	op := Opcode(frame[HeaderSize])
	if op == OpFlush && len(frame) == FlushFrameSize {
		return Opcode(frame[2*HeaderSize]), true, true
	}
	return op, false, true
}
