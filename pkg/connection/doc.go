// Package connection paces reconnection attempts to a camera.
//
// When a camera is unplugged or stops answering, the acquisition loop keeps
// trying to claim it again. Attempts are spaced with exponential backoff:
//
//  1. Initial delay: 100 milliseconds
//  2. Exponential increase: 200ms, 400ms, 800ms, 1.6s, 3.2s
//  3. Maximum delay: 5 seconds
//  4. Continue at 5s until successful
//  5. Reset to 100ms on successful reconnection
//
// # Jitter
//
// To keep several processes polling the same bus from locking step:
//
//	actual_delay = base_delay + random(0, base_delay * 0.25)
package connection
