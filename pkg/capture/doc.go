// Package capture runs the background acquisition loop.
//
// An Acquirer owns one goroutine that alternates between two states. While
// the source is disconnected each iteration tries to connect, pacing failed
// attempts with exponential backoff. While connected each iteration grabs a
// raw frame and decodes it. Every iteration ends by handing the decoded image
// (or nil when nothing was produced) to the OnAcquired callbacks, sleeping the
// configured interval and waiting at the pause gate.
//
// Close stops the loop, waits for the goroutine to finish the iteration in
// flight and only then releases the source, so the camera is never released
// while a transfer is running.
package capture
