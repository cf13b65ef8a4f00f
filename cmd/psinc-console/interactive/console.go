// Package interactive provides the interactive command-line interface
// for a PSI camera.
package interactive

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/psinc/psinc-go/internal/cli"
	"github.com/psinc/psinc-go/pkg/camera"
	"github.com/psinc/psinc-go/pkg/decode"
	"github.com/psinc/psinc-go/pkg/driver"
	"github.com/psinc/psinc-go/pkg/persistence"
)

// Config configures a Console.
type Config struct {
	// Store keeps settings for save and load. If nil, both are disabled.
	Store *persistence.SettingsStore

	// OutDir receives the PNG files written by capture.
	OutDir string

	// Colour decodes Bayer captures in colour.
	Colour bool

	// HistoryFile persists command history between sessions.
	HistoryFile string
}

// Console handles interactive mode for psinc-console.
type Console struct {
	cam    *camera.Camera
	config Config
	out    io.Writer
	rl     *readline.Instance

	frames int
}

// New creates a console for cam writing to os.Stdout until Run starts.
func New(cam *camera.Camera, cfg Config) *Console {
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	return &Console{cam: cam, config: cfg, out: os.Stdout}
}

// Stdout returns the writer commands print to. Once Run has started it
// coordinates with the readline prompt.
func (c *Console) Stdout() io.Writer {
	return c.out
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "psinc> ",
		HistoryFile:     c.config.HistoryFile,
		AutoComplete:    c.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	c.rl = rl
	c.out = rl.Stdout()
	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return nil
		}

		if !c.Execute(line) {
			cancel()
			return nil
		}
	}
}

// Execute runs one command line. It returns false when the line asks the
// console to quit.
func (c *Console) Execute(line string) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()

	case "connect":
		c.cmdConnect()

	case "status":
		c.cmdStatus()

	case "features", "f":
		c.cmdFeatures(args)

	case "get", "g":
		c.cmdGet(args)

	case "set", "s":
		c.cmdSet(args)

	case "reset":
		c.cmdReset(args)

	case "alias", "aliases":
		c.cmdAlias(args)

	case "context", "ctx":
		c.cmdContext(args)

	case "window":
		c.cmdWindow(args)

	case "refresh":
		c.cmdRefresh()

	case "devices", "dev":
		c.cmdDevices(args)

	case "read", "r":
		c.cmdRead(args)

	case "write", "w":
		c.cmdWrite(args)

	case "capture", "cap":
		c.cmdCapture(args)

	case "save":
		c.cmdSave()

	case "load":
		c.cmdLoad()

	case "quit", "exit", "q":
		fmt.Fprintln(c.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
PSI Camera Commands:
  Connection:
    connect                - Connect to the camera
    status                 - Show camera status
    refresh                - Re-read every register page

  Features:
    features [text]        - List features (optionally containing text)
    get <name>             - Show a feature or alias value
    set <name> <value>     - Set a feature or alias
    reset <name>           - Restore a feature default
    alias [name]           - List aliases, or show one in every context
    context [n]            - Show or select the register context
    window <x> <y> <w> <h> [ctx] - Set the capture window

  Hardware:
    devices [name] [text]  - List peripherals, read one, or write text to it
    read <reg>             - Read a register (0x prefix for hex)
    write <reg> <value>    - Write a register

  Capture:
    capture [n] [colour|grey] - Save n frames as PNG

  Settings:
    save                   - Save feature values for this camera
    load                   - Apply saved feature values

  General:
    help                   - Show this help
    quit                   - Exit console`)
}

// ready reports whether the camera is configured, printing a hint when not.
func (c *Console) ready() bool {
	if c.cam.Connected() && c.cam.Chip() != "" {
		return true
	}
	fmt.Fprintln(c.out, "Not connected (use 'connect')")
	return false
}

func (c *Console) cmdConnect() {
	if c.cam.Connected() {
		fmt.Fprintf(c.out, "Already connected to %s\n", c.cam.Serial())
		return
	}
	if err := c.cam.Connect(); err != nil {
		fmt.Fprintf(c.out, "Connect failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Connected to %s (%s)\n", c.cam.Serial(), c.cam.Chip())
}

func (c *Console) cmdStatus() {
	fmt.Fprintln(c.out, "\nCamera Status")
	fmt.Fprintln(c.out, "-------------------------------------------")
	if !c.cam.Connected() {
		fmt.Fprintln(c.out, "  Connected:  no")
		return
	}

	sensor := "bayer " + c.cam.Pattern().String()
	if c.cam.Monochrome() {
		sensor = "monochrome"
	}
	w, h := c.cam.Size()

	fmt.Fprintln(c.out, "  Connected:  yes")
	fmt.Fprintf(c.out, "  Serial:     %s\n", c.cam.Serial())
	fmt.Fprintf(c.out, "  Chip:       %s\n", c.cam.Chip())
	fmt.Fprintf(c.out, "  Sensor:     %s\n", sensor)
	fmt.Fprintf(c.out, "  Context:    %d of %d\n", c.cam.Context(), c.cam.Contexts())
	fmt.Fprintf(c.out, "  Window:     %dx%d\n", w, h)
	fmt.Fprintf(c.out, "  Features:   %d\n", len(c.cam.Features()))
	fmt.Fprintf(c.out, "  Devices:    %s\n", strings.Join(c.cam.Devices(), ", "))
}

func (c *Console) cmdFeatures(args []string) {
	if !c.ready() {
		return
	}
	filter := strings.ToLower(strings.Join(args, " "))

	n := 0
	for _, name := range c.cam.Features() {
		if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
			continue
		}
		c.printFeature(c.cam.Feature(name))
		n++
	}
	fmt.Fprintf(c.out, "%d features\n", n)
}

func (c *Console) printFeature(f *driver.Feature) {
	var flags []string
	if f.ReadOnly() {
		flags = append(flags, "ro")
	}
	if c.cam.IsGeneric(f) {
		flags = append(flags, "alias")
	}
	suffix := ""
	if len(flags) > 0 {
		suffix = " (" + strings.Join(flags, ", ") + ")"
	}
	fmt.Fprintf(c.out, "  %-44s %6d  [%d..%d]%s\n", f.Name(), f.Value(), f.Minimum(), f.Maximum(), suffix)
}

// lookup resolves an alias in the active context, then a feature name.
func (c *Console) lookup(name string) *driver.Feature {
	if f := c.cam.Alias(name); f != nil {
		return f
	}
	return c.cam.Feature(name)
}

func (c *Console) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: get <name>")
		return
	}
	if !c.ready() {
		return
	}

	name := strings.Join(args, " ")
	f := c.lookup(name)
	if f == nil {
		fmt.Fprintf(c.out, "Unknown feature: %s\n", name)
		return
	}
	c.printFeature(f)
}

func (c *Console) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.out, "Usage: set <name> <value>")
		return
	}
	if !c.ready() {
		return
	}

	name := strings.Join(args[:len(args)-1], " ")
	value, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid value: %s\n", args[len(args)-1])
		return
	}

	f := c.lookup(name)
	if f == nil {
		fmt.Fprintf(c.out, "Unknown feature: %s\n", name)
		return
	}
	if !f.Set(value) {
		fmt.Fprintf(c.out, "Rejected: %s accepts %d..%d\n", f.Name(), f.Minimum(), f.Maximum())
		return
	}
	fmt.Fprintln(c.out, "OK")
}

func (c *Console) cmdReset(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: reset <name>")
		return
	}
	if !c.ready() {
		return
	}

	name := strings.Join(args, " ")
	f := c.lookup(name)
	if f == nil {
		fmt.Fprintf(c.out, "Unknown feature: %s\n", name)
		return
	}
	if !f.Reset() {
		fmt.Fprintf(c.out, "Reset failed: %s\n", f.Name())
		return
	}
	fmt.Fprintf(c.out, "%s reset to %d\n", f.Name(), f.Default())
}

func (c *Console) cmdAlias(args []string) {
	if !c.ready() {
		return
	}

	if len(args) == 0 {
		for _, alias := range c.cam.Aliases() {
			f := c.cam.Alias(alias)
			if f == nil {
				continue
			}
			fmt.Fprintf(c.out, "  %-16s -> %s = %d\n", alias, f.Name(), f.Value())
		}
		return
	}

	name := strings.Join(args, " ")
	found := false
	for ctx := 0; ctx < max(c.cam.Contexts(), 1); ctx++ {
		if f := c.cam.AliasIn(ctx, name); f != nil {
			fmt.Fprintf(c.out, "  [%d] %s = %d\n", ctx, f.Name(), f.Value())
			found = true
		}
	}
	if !found {
		fmt.Fprintf(c.out, "Unknown alias: %s\n", name)
	}
}

func (c *Console) cmdContext(args []string) {
	if !c.ready() {
		return
	}
	if len(args) == 0 {
		fmt.Fprintf(c.out, "Context %d of %d\n", c.cam.Context(), c.cam.Contexts())
		return
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid context: %s\n", args[0])
		return
	}
	if !c.cam.SetContext(n) {
		fmt.Fprintf(c.out, "Context %d not available\n", n)
		return
	}
	w, h := c.cam.Size()
	fmt.Fprintf(c.out, "Context %d selected (%dx%d)\n", n, w, h)
}

func (c *Console) cmdWindow(args []string) {
	if len(args) < 4 {
		fmt.Fprintln(c.out, "Usage: window <x> <y> <width> <height> [context]")
		return
	}
	if !c.ready() {
		return
	}

	values := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			fmt.Fprintf(c.out, "Invalid number: %s\n", a)
			return
		}
		values[i] = v
	}

	ctx := c.cam.Context()
	if len(values) > 4 {
		ctx = values[4]
	}
	if !c.cam.SetWindow(ctx, values[0], values[1], values[2], values[3]) {
		fmt.Fprintln(c.out, "Window rejected")
		return
	}
	w, h := c.cam.SizeIn(ctx)
	fmt.Fprintf(c.out, "Window in context %d is %dx%d\n", ctx, w, h)
}

func (c *Console) cmdRefresh() {
	if !c.ready() {
		return
	}
	if err := c.cam.Refresh(); err != nil {
		fmt.Fprintf(c.out, "Refresh failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "OK")
}

func (c *Console) cmdDevices(args []string) {
	if !c.ready() {
		return
	}

	if len(args) == 0 {
		for _, name := range c.cam.Devices() {
			d := c.cam.Device(name)
			fmt.Fprintf(c.out, "  %-12s index %3d  %s\n", name, d.Index(), d.Direction())
		}
		return
	}

	d := c.cam.Device(args[0])
	if d == nil {
		fmt.Fprintf(c.out, "Unknown device: %s\n", args[0])
		return
	}
	if len(args) > 1 {
		if err := d.WriteString(strings.Join(args[1:], " ")); err != nil {
			fmt.Fprintf(c.out, "Write failed: %v\n", err)
			return
		}
		fmt.Fprintln(c.out, "OK")
		return
	}
	if !d.Direction().CanRead() {
		fmt.Fprintf(c.out, "%s is write-only\n", d.Name())
		return
	}
	data, err := d.Read()
	if err != nil {
		fmt.Fprintf(c.out, "Read failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "%s: % x\n", d.Name(), data)
}

func parseRegister(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	return uint16(v), err
}

func (c *Console) cmdRead(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: read <register>")
		return
	}
	if !c.ready() {
		return
	}

	addr, err := parseRegister(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid register: %s\n", args[0])
		return
	}
	v, err := c.cam.ReadRegister(addr)
	if err != nil {
		fmt.Fprintf(c.out, "Read failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "0x%04x = 0x%04x (%d)\n", addr, v, v)
}

func (c *Console) cmdWrite(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.out, "Usage: write <register> <value>")
		return
	}
	if !c.ready() {
		return
	}

	addr, err := parseRegister(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid register: %s\n", args[0])
		return
	}
	v, err := parseRegister(args[1])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid value: %s\n", args[1])
		return
	}
	if err := c.cam.WriteRegister(addr, v); err != nil {
		fmt.Fprintf(c.out, "Write failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "OK")
}

func (c *Console) cmdCapture(args []string) {
	if !c.ready() {
		return
	}

	count := 1
	colour := c.config.Colour
	for _, a := range args {
		switch strings.ToLower(a) {
		case "colour", "color":
			colour = true
		case "grey", "gray":
			colour = false
		default:
			n, err := strconv.Atoi(a)
			if err != nil || n < 1 {
				fmt.Fprintln(c.out, "Usage: capture [n] [colour|grey]")
				return
			}
			count = n
		}
	}

	for i := 0; i < count; i++ {
		frame, err := c.cam.Grab(camera.CaptureNormal, 0)
		if err != nil {
			fmt.Fprintf(c.out, "Capture failed: %v\n", err)
			return
		}
		img, err := frame.Decode(colour, decode.RGB)
		if err != nil {
			fmt.Fprintf(c.out, "Decode failed: %v\n", err)
			return
		}

		path := cli.FramePath(c.config.OutDir, c.frames)
		if err := cli.SavePNG(path, img); err != nil {
			fmt.Fprintf(c.out, "Save failed: %v\n", err)
			return
		}
		c.frames++
		fmt.Fprintf(c.out, "%s %dx%d %s in %s\n", path, img.Width, img.Height, frame.ColourMode(colour), frame.Duration.Round(time.Microsecond))
	}
}

func (c *Console) cmdSave() {
	if c.config.Store == nil {
		fmt.Fprintln(c.out, "No settings directory configured")
		return
	}
	if !c.ready() {
		return
	}

	settings := c.cam.Snapshot()
	if err := c.config.Store.Save(settings); err != nil {
		fmt.Fprintf(c.out, "Save failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Saved %d features to %s\n", len(settings.Features), c.config.Store.Path(settings.Serial))
}

func (c *Console) cmdLoad() {
	if c.config.Store == nil {
		fmt.Fprintln(c.out, "No settings directory configured")
		return
	}
	if !c.ready() {
		return
	}

	settings, err := c.config.Store.Load(c.cam.Serial())
	if err != nil {
		fmt.Fprintf(c.out, "Load failed: %v\n", err)
		return
	}
	if settings == nil {
		fmt.Fprintf(c.out, "No saved settings for %s\n", c.cam.Serial())
		return
	}
	if err := c.cam.Apply(settings); err != nil {
		fmt.Fprintf(c.out, "Apply failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Applied %d features\n", len(settings.Features))
}

func (c *Console) completer() *readline.PrefixCompleter {
	names := readline.PcItemDynamic(c.completeNames)
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("connect"),
		readline.PcItem("status"),
		readline.PcItem("features"),
		readline.PcItem("get", names),
		readline.PcItem("set", names),
		readline.PcItem("reset", names),
		readline.PcItem("alias", readline.PcItemDynamic(func(string) []string { return c.cam.Aliases() })),
		readline.PcItem("context"),
		readline.PcItem("window"),
		readline.PcItem("refresh"),
		readline.PcItem("devices", readline.PcItemDynamic(func(string) []string { return c.cam.Devices() })),
		readline.PcItem("read"),
		readline.PcItem("write"),
		readline.PcItem("capture", readline.PcItem("colour"), readline.PcItem("grey")),
		readline.PcItem("save"),
		readline.PcItem("load"),
		readline.PcItem("quit"),
	)
}

// completeNames offers aliases before feature names.
func (c *Console) completeNames(string) []string {
	return append(c.cam.Aliases(), c.cam.Features()...)
}
