// Package driver models the programmable parts of a PSI camera: sensor
// registers, the named bit fields (features) packed into them, per-context
// aliases that give features generic names, and the addressable peripherals
// (devices) behind the camera's microcontroller.
//
// Every type here talks to the camera through the Transport interface, which
// *transport.Transport satisfies. Register values are cached; reads come from
// the cache until Refresh or RefreshFrom updates it.
package driver
