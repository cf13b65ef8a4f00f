// Command psinc-console is an interactive shell for a PSI camera.
//
// Usage:
//
//	psinc-console [flags]
//
// Flags:
//
//	-serial string        Regular expression matched against serial numbers
//	-bus int              Restrict to one USB bus (0 = any)
//	-description string   Camera description YAML overriding the built-in one
//	-settings string      Directory for save and load (default "settings")
//	-out string           Directory for captured frames (default ".")
//	-colour               Decode Bayer captures in colour
//	-history string       Command history file
//	-protocol-log string  Write USB traffic to a .plog file
//	-log-level string     Log level: debug, info, warn, error (default "warn")
//	-simulate             Use a simulated camera instead of libusb
//
// Examples:
//
//	# Explore a simulated camera
//	psinc-console -simulate
//
//	# Record a tuning session
//	psinc-console -serial '^PSI-00' -protocol-log tuning.plog
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/psinc/psinc-go/cmd/psinc-console/interactive"
	"github.com/psinc/psinc-go/internal/cli"
	"github.com/psinc/psinc-go/pkg/camera"
	"github.com/psinc/psinc-go/pkg/description"
	"github.com/psinc/psinc-go/pkg/persistence"
)

// Config holds the command configuration.
type Config struct {
	Serial      string
	Bus         int
	Description string
	SettingsDir string
	OutDir      string
	Colour      bool
	History     string
	ProtocolLog string
	LogLevel    string
	Simulate    bool
}

var config Config

func init() {
	flag.StringVar(&config.Serial, "serial", "", "Regular expression matched against serial numbers")
	flag.IntVar(&config.Bus, "bus", 0, "Restrict to one USB bus (0 = any)")
	flag.StringVar(&config.Description, "description", "", "Camera description YAML overriding the built-in one")
	flag.StringVar(&config.SettingsDir, "settings", "settings", "Directory for save and load")
	flag.StringVar(&config.OutDir, "out", ".", "Directory for captured frames")
	flag.BoolVar(&config.Colour, "colour", false, "Decode Bayer captures in colour")
	flag.StringVar(&config.History, "history", "", "Command history file")
	flag.StringVar(&config.ProtocolLog, "protocol-log", "", "Write USB traffic to a .plog file")
	flag.StringVar(&config.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flag.BoolVar(&config.Simulate, "simulate", false, "Use a simulated camera instead of libusb")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
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

	if err := os.MkdirAll(config.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cam := camera.New(camCfg)
	defer cam.Release()

	console := interactive.New(cam, interactive.Config{
		Store:       persistence.NewSettingsStore(config.SettingsDir),
		OutDir:      config.OutDir,
		Colour:      config.Colour,
		HistoryFile: config.History,
	})

	cam.OnConnectionChanged(func(connected bool) {
		if !connected {
			fmt.Fprintln(console.Stdout(), "Camera disconnected")
		}
	})
	cam.OnTransferError(func(code string) {
		fmt.Fprintf(console.Stdout(), "Transfer error: %s\n", code)
	})

	if err := cam.Connect(); err != nil {
		fmt.Printf("No camera connected (%v); use 'connect' to retry\n", err)
	} else {
		fmt.Printf("Connected to %s (%s)\n", cam.Serial(), cam.Chip())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	return console.Run(ctx, cancel)
}
