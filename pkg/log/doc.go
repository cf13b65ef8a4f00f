// Package log provides structured protocol capture for PSI cameras.
//
// This package defines the Logger interface and Event types for recording
// what crosses the USB link (command frames, responses, image planes),
// connection state changes and transfer errors. It is separate from
// operational logging (slog): protocol capture provides a complete
// machine-readable trace for debugging firmware and driver issues.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For field diagnostics: write to a binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/psinc/camera.plog")
//
//	// Both: use MultiLogger
//	cfg.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
//   - Transport: raw bulk frames (FrameEvent), truncated for image data
//   - Capture: acquisition summaries (CaptureEvent)
//   - State changes and errors at any layer
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with the .plog extension.
// The psinc-log CLI tool provides viewing, filtering, and export.
package log
