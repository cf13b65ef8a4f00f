// Command psinc-capture grabs frames from a PSI camera and saves them as PNG.
//
// Usage:
//
//	psinc-capture [flags]
//
// Flags:
//
//	-serial string        Regular expression matched against serial numbers
//	-bus int              Restrict to one USB bus (0 = any)
//	-count int            Frames to save, 0 runs until interrupted (default 1)
//	-out string           Output directory (default ".")
//	-colour               Decode Bayer sensors in colour instead of grey
//	-mode string          Capture mode: normal, master, slave-rising, slave-falling
//	-flash uint           Flash power passed with each capture
//	-sleep duration       Pause between captures (default 1ms)
//	-description string   Camera description YAML overriding the built-in one
//	-settings string      Directory of saved camera settings to apply on connect
//	-protocol-log string  Write USB traffic to a .plog file
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-simulate             Use a simulated camera instead of libusb
//	-list                 List attached cameras and exit
//
// Examples:
//
//	# Save ten colour frames from the first camera
//	psinc-capture -count 10 -colour -out frames
//
//	# Record traffic while capturing from a simulated camera
//	psinc-capture -simulate -count 3 -protocol-log sim.plog
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/psinc/psinc-go/internal/cli"
	"github.com/psinc/psinc-go/pkg/camera"
	"github.com/psinc/psinc-go/pkg/capture"
	"github.com/psinc/psinc-go/pkg/decode"
	"github.com/psinc/psinc-go/pkg/description"
	"github.com/psinc/psinc-go/pkg/persistence"
)

// Config holds the command configuration.
type Config struct {
	Serial      string
	Bus         int
	Count       int
	OutDir      string
	Colour      bool
	Mode        string
	Flash       uint
	Sleep       time.Duration
	Description string
	SettingsDir string
	ProtocolLog string
	LogLevel    string
	Simulate    bool
	List        bool
}

var config Config

func init() {
	flag.StringVar(&config.Serial, "serial", "", "Regular expression matched against serial numbers")
	flag.IntVar(&config.Bus, "bus", 0, "Restrict to one USB bus (0 = any)")
	flag.IntVar(&config.Count, "count", 1, "Frames to save, 0 runs until interrupted")
	flag.StringVar(&config.OutDir, "out", ".", "Output directory")
	flag.BoolVar(&config.Colour, "colour", false, "Decode Bayer sensors in colour instead of grey")
	flag.StringVar(&config.Mode, "mode", "normal", "Capture mode: normal, master, slave-rising, slave-falling")
	flag.UintVar(&config.Flash, "flash", 0, "Flash power passed with each capture (0-255)")
	flag.DurationVar(&config.Sleep, "sleep", capture.DefaultSleep, "Pause between captures")
	flag.StringVar(&config.Description, "description", "", "Camera description YAML overriding the built-in one")
	flag.StringVar(&config.SettingsDir, "settings", "", "Directory of saved camera settings to apply on connect")
	flag.StringVar(&config.ProtocolLog, "protocol-log", "", "Write USB traffic to a .plog file")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&config.Simulate, "simulate", false, "Use a simulated camera instead of libusb")
	flag.BoolVar(&config.List, "list", false, "List attached cameras and exit")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := validateConfig(); err != nil {
		return err
	}
	mode, err := camera.ParseCaptureMode(config.Mode)
	if err != nil {
		return err
	}

	logger, err := cli.NewLogger(os.Stderr, config.LogLevel)
	if err != nil {
		return err
	}

	plog, err := cli.NewProtocolLog(config.ProtocolLog, logger)
	if err != nil {
		return err
	}
	defer plog.Close()

	host := cli.NewHost(config.Simulate)
	defer host.Close()

	camCfg := camera.DefaultConfig(host)
	camCfg.Serial = config.Serial
	camCfg.Bus = config.Bus
	camCfg.Logger = logger
	if plog != nil {
		camCfg.ProtocolLogger = plog
	}

	if config.Description != "" {
		desc, err := description.LoadFile(config.Description)
		if err != nil {
			return err
		}
		camCfg.Description = desc
	}

	cam := camera.New(camCfg)
	if config.List {
		return listCameras(cam)
	}

	cam.OnConnectionChanged(func(connected bool) {
		if connected {
			logger.Info("camera connected", "serial", cam.Serial(), "chip", cam.Chip())
		} else {
			logger.Info("camera disconnected")
		}
	})
	cam.OnTransferError(func(code string) {
		logger.Warn("transfer failed", "code", code)
	})
	if config.SettingsDir != "" {
		restoreSettings(cam, persistence.NewSettingsStore(config.SettingsDir), logger)
	}

	acqCfg := capture.DefaultConfig()
	acqCfg.Colour = config.Colour
	acqCfg.Mode = mode
	acqCfg.Flash = byte(config.Flash)
	acqCfg.Sleep = config.Sleep
	acqCfg.Order = decode.RGB
	acqCfg.Logger = logger
	if plog != nil {
		acqCfg.ProtocolLogger = plog
	}

	acq := capture.New(cam, acqCfg)
	done := make(chan struct{})
	saver := &frameSaver{dir: config.OutDir, limit: config.Count, done: done, logger: logger}
	acq.OnAcquired(saver.save)

	if err := acq.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig)
	}

	acq.Close()

	saved, err := saver.result()
	stats := acq.Stats()
	fmt.Printf("Saved %d frames to %s (%d captures, %d failures, %d connects)\n",
		saved, config.OutDir, stats.Frames, stats.Failures, stats.Connects)
	if config.ProtocolLog != "" {
		fmt.Printf("Protocol log: %d events in %s\n", plog.Events(), config.ProtocolLog)
	}
	return err
}

func validateConfig() error {
	if config.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", config.Count)
	}
	if config.Flash > 0xff {
		return fmt.Errorf("flash must be 0-255, got %d", config.Flash)
	}
	if config.Sleep < 0 {
		return fmt.Errorf("sleep must not be negative, got %s", config.Sleep)
	}
	if !config.List {
		if err := os.MkdirAll(config.OutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}

func listCameras(cam *camera.Camera) error {
	cameras, err := cam.List()
	if err != nil {
		return err
	}
	if len(cameras) == 0 {
		fmt.Println("No cameras attached")
		return nil
	}

	serials := make([]string, 0, len(cameras))
	for serial := range cameras {
		serials = append(serials, serial)
	}
	sort.Strings(serials)
	for _, serial := range serials {
		fmt.Printf("%-20s %s\n", serial, cameras[serial])
	}
	return nil
}

// restoreSettings applies the saved settings of a camera once per connection.
func restoreSettings(cam *camera.Camera, store *persistence.SettingsStore, logger *slog.Logger) {
	var applied atomic.Bool

	cam.OnConnectionChanged(func(connected bool) {
		if !connected {
			applied.Store(false)
		}
	})
	cam.OnRefreshed(func() {
		if !applied.CompareAndSwap(false, true) {
			return
		}
		settings, err := store.Load(cam.Serial())
		if err != nil {
			logger.Warn("failed to load settings", "serial", cam.Serial(), "error", err)
			return
		}
		if settings == nil {
			logger.Debug("no saved settings", "serial", cam.Serial())
			return
		}
		if err := cam.Apply(settings); err != nil {
			logger.Warn("settings partly applied", "serial", cam.Serial(), "error", err)
			return
		}
		logger.Info("settings applied", "serial", cam.Serial(), "features", len(settings.Features))
	})
}

// frameSaver writes acquired images until limit frames were saved or a
// write fails.
type frameSaver struct {
	dir    string
	limit  int
	done   chan struct{}
	logger *slog.Logger

	mu      sync.Mutex
	count   int
	err     error
	stopped bool
}

func (s *frameSaver) save(img *decode.Image) {
	if img == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	path := cli.FramePath(s.dir, s.count)
	if err := cli.SavePNG(path, img); err != nil {
		s.err = err
		s.stop()
		return
	}
	s.logger.Debug("frame saved", "path", path, "width", img.Width, "height", img.Height)

	s.count++
	if s.count == s.limit {
		s.stop()
	}
}

func (s *frameSaver) stop() {
	s.stopped = true
	close(s.done)
}

func (s *frameSaver) result() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count, s.err
}
