// Package camera ties the transport and the driver model together into a
// PSI camera.
//
// On Connect the camera is claimed, its Query device is read to learn the
// imaging chip, the colour filter and the attached peripherals, and the
// matching description is turned into registers, features, aliases and
// devices. Every register page is then read back so that the feature cache
// reflects the hardware.
//
// Feature values are cached. Set writes through to the camera; hardware
// failures are reported through OnTransferError and OnConnectionChanged
// rather than as return values, and a later Refresh (or reconnect) brings
// the cache back in line.
package camera
