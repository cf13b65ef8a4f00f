package driver

// Device indices of the standard peripheral pool.
const (
	IndexProx       byte = 0x00
	IndexLock       byte = 0x01
	IndexLEDArray   byte = 0x02
	IndexSecureLock byte = 0x03
	IndexError      byte = 0x04
	IndexSerial     byte = 0x05
	IndexStorage0   byte = 0x06
	IndexName       byte = 0x07
	IndexStorage1   byte = 0x08
	IndexDefaults   byte = 0x09
	IndexLEDPair    byte = 0x0e
	IndexQuery      byte = 0xff
)

// DeviceInfo describes a pool entry.
type DeviceInfo struct {
	Name      string
	Index     byte
	Direction Direction
}

// Pool lists every known peripheral.
var Pool = []DeviceInfo{
	{"Prox", IndexProx, DirectionIn},
	{"Lock", IndexLock, DirectionOut},
	{"LEDArray", IndexLEDArray, DirectionOut},
	{"SecureLock", IndexSecureLock, DirectionBoth},
	{"Error", IndexError, DirectionIn},
	{"Serial", IndexSerial, DirectionBoth},
	{"Storage0", IndexStorage0, DirectionBoth},
	{"Name", IndexName, DirectionBoth},
	{"Storage1", IndexStorage1, DirectionBoth},
	{"Defaults", IndexDefaults, DirectionBoth},
	{"LEDPair", IndexLEDPair, DirectionOut},
	{"Query", IndexQuery, DirectionIn},
}

// Lookup returns the pool entry for index.
func Lookup(index byte) (DeviceInfo, bool) {
	for _, info := range Pool {
		if info.Index == index {
			return info, true
		}
	}
	return DeviceInfo{}, false
}

// DefaultDevices is the device list assumed when a camera reports none.
func DefaultDevices() []byte {
	return []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
}

// NewDevices builds the devices for the given indices. Indices missing from
// the pool are skipped and Query is always included.
func NewDevices(t Transport, indices []byte) map[string]*Device {
	devices := make(map[string]*Device, len(indices)+1)
	for _, index := range indices {
		if info, ok := Lookup(index); ok {
			devices[info.Name] = NewDevice(t, info.Name, info.Index, info.Direction)
		}
	}
	devices["Query"] = NewDevice(t, "Query", IndexQuery, DirectionIn)
	return devices
}

// Query is the decoded payload of the Query device.
type Query struct {
	// Known is set when the payload carries chip information.
	Known bool

	// Chip is the imaging chip code.
	Chip byte

	// Colour is set for Bayer sensors.
	Colour bool

	// Devices lists the attached peripheral indices.
	Devices []byte
}

// ParseQuery decodes a Query device payload:
// [header, chip, flags, ..., count, devices...] where header is the number
// of bytes between the header byte and the count.
func ParseQuery(b []byte) Query {
	var q Query
	if len(b) == 0 {
		return q
	}

	header := int(b[0])
	if header > 1 && len(b) > 2 {
		q.Known = true
		q.Chip = b[1]
		q.Colour = b[2]&0x01 != 0
	}

	if len(b) > header+1 {
		count := int(b[header+1])
		start := header + 2
		end := min(start+count, len(b))
		if start <= end {
			q.Devices = append([]byte(nil), b[start:end]...)
		}
	}
	return q
}
