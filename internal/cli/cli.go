// Package cli holds the setup shared by the camera command-line tools:
// operational and protocol logging, host selection and image output.
package cli

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/psinc/psinc-go/pkg/log"
	"github.com/psinc/psinc-go/pkg/usb"
	"github.com/psinc/psinc-go/pkg/usb/sim"
)

// DefaultSimSerial is the serial number of the camera -simulate attaches.
const DefaultSimSerial = "SIM-0001"

// ParseLevel maps a -log-level flag value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s)
	}
}

// NewLogger returns a text logger writing to w at the named level.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

// ProtocolLog is the protocol logger built from the -protocol-log flag.
type ProtocolLog struct {
	log.Logger
	file *log.FileLogger
}

// NewProtocolLog opens path as a .plog file when it is non-empty. When
// logger has debug enabled, events are also mirrored to it. The result is
// nil when neither applies.
func NewProtocolLog(path string, logger *slog.Logger) (*ProtocolLog, error) {
	var loggers []log.Logger
	p := &ProtocolLog{}

	if path != "" {
		f, err := log.NewFileLogger(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create protocol log: %w", err)
		}
		p.file = f
		loggers = append(loggers, f)
	}
	if logger != nil && logger.Enabled(context.Background(), slog.LevelDebug) {
		loggers = append(loggers, log.NewSlogAdapter(logger))
	}

	switch len(loggers) {
	case 0:
		return nil, nil
	case 1:
		p.Logger = loggers[0]
	default:
		p.Logger = log.NewMultiLogger(loggers...)
	}
	return p, nil
}

// Close closes the log file, if any. It is safe on a nil ProtocolLog.
func (p *ProtocolLog) Close() error {
	if p == nil || p.file == nil {
		return nil
	}
	return p.file.Close()
}

// Events returns the number of events written to the log file.
func (p *ProtocolLog) Events() int {
	if p == nil || p.file == nil {
		return 0
	}
	written, _ := p.file.Counts()
	return written
}

// NewHost returns the libusb host, or a host with one simulated camera when
// simulate is set.
func NewHost(simulate bool) usb.Host {
	if !simulate {
		return usb.NewHost()
	}
	return sim.NewHost(sim.NewCamera(sim.DefaultConfig(DefaultSimSerial)))
}

// FramePath returns the file name for the n-th saved frame in dir.
func FramePath(dir string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("frame-%04d.png", n))
}

// SavePNG encodes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
