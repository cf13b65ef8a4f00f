package usb

import "time"

// Identifiers of the PSI camera USB function.
const (
	// VendorID is the USB vendor ID reported by PSI cameras.
	VendorID uint16 = 0x0525

	// ProductID is the USB product ID reported by PSI cameras.
	ProductID uint16 = 0xaaca

	// WriteEndpoint is the bulk OUT endpoint address for commands.
	WriteEndpoint uint8 = 0x03

	// ReadEndpoint is the bulk IN endpoint address for responses.
	ReadEndpoint uint8 = 0x81

	// Interface is the interface number claimed on the camera.
	Interface = 0
)

// Host enumerates USB devices.
type Host interface {
	// Candidates returns all attached devices matching vendor and product.
	// The caller owns the returned candidates and must Close those it does
	// not claim.
	Candidates(vendor, product uint16) ([]Candidate, error)

	// Close releases the host context.
	Close() error
}

// Candidate is an attached device that has not been claimed yet.
type Candidate interface {
	// Bus returns the bus number the device is attached to.
	Bus() int

	// Serial reads the serial number string descriptor.
	Serial() (string, error)

	// Product reads the product string descriptor.
	Product() (string, error)

	// Claim opens the device and claims the given interface.
	// On success the returned Handle owns the device.
	Claim(iface int) (Handle, error)

	// Close releases the candidate without claiming it.
	Close() error
}

// Handle is an open device with a claimed interface.
type Handle interface {
	// BulkWrite writes data to the endpoint and returns the bytes transferred.
	BulkWrite(endpoint uint8, data []byte, timeout time.Duration) (int, error)

	// BulkRead reads into buf from the endpoint and returns the bytes transferred.
	BulkRead(endpoint uint8, buf []byte, timeout time.Duration) (int, error)

	// Control performs a control transfer on endpoint 0.
	Control(requestType, request uint8, value, index uint16, data []byte) (int, error)

	// Reset performs a USB port reset of the device.
	Reset() error

	// Close releases the claimed interface and closes the device.
	Close() error
}
