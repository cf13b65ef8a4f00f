// Package persistence saves camera settings between sessions.
//
// Settings are stored as one JSON file per camera serial number in a
// directory. A saved snapshot holds the active context and the values of the
// writable features, so that a camera can be restored after a power cycle.
package persistence
