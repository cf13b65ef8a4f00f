package usb

import (
	"context"
	"errors"
	"fmt"
)

// Code is a libusb error code.
type Code int

// libusb error codes.
const (
	CodeSuccess          Code = 0
	CodeIO               Code = -1
	CodeInvalidParameter Code = -2
	CodeAccess           Code = -3
	CodeNoDevice         Code = -4
	CodeNotFound         Code = -5
	CodeBusy             Code = -6
	CodeTimeout          Code = -7
	CodeOverflow         Code = -8
	CodePipe             Code = -9
	CodeInterrupted      Code = -10
	CodeNoMemory         Code = -11
	CodeNotSupported     Code = -12
	CodeOther            Code = -99
)

var codeNames = map[Code]string{
	CodeSuccess:          "Success",
	CodeIO:               "Io",
	CodeInvalidParameter: "InvalidParameter",
	CodeAccess:           "Access",
	CodeNoDevice:         "NoDevice",
	CodeNotFound:         "NotFound",
	CodeBusy:             "Busy",
	CodeTimeout:          "Timeout",
	CodeOverflow:         "Overflow",
	CodePipe:             "Pipe",
	CodeInterrupted:      "Interrupted",
	CodeNoMemory:         "NoMemory",
	CodeNotSupported:     "NotSupported",
	CodeOther:            "Other",
}

// String returns the libusb name of the code.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error implements the error interface so a Code can be returned directly.
func (c Code) Error() string {
	return "usb: " + c.String()
}

// CodeOf classifies err as a libusb error code.
// A nil error is CodeSuccess; unknown errors are CodeOther.
func CodeOf(err error) Code {
	if err == nil {
		return CodeSuccess
	}

	var c Code
	if errors.As(err, &c) {
		return c
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return CodeInterrupted
	}
	if c, ok := backendCode(err); ok {
		return c
	}
	return CodeOther
}
