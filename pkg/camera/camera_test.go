package camera

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psinc/psinc-go/pkg/decode"
	"github.com/psinc/psinc-go/pkg/description"
	"github.com/psinc/psinc-go/pkg/log"
	"github.com/psinc/psinc-go/pkg/transport"
	"github.com/psinc/psinc-go/pkg/usb"
	"github.com/psinc/psinc-go/pkg/usb/sim"
)

type events struct {
	mu          sync.Mutex
	connections []bool
	errors      []string
	refreshed   int
}

func (e *events) watch(c *Camera) {
	c.OnConnectionChanged(func(connected bool) {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.connections = append(e.connections, connected)
	})
	c.OnTransferError(func(code string) {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.errors = append(e.errors, code)
	})
	c.OnRefreshed(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.refreshed++
	})
}

func newSim(t *testing.T, cfg sim.Config) (*Camera, *sim.Camera, *events) {
	t.Helper()
	simCam := sim.NewCamera(cfg)

	config := DefaultConfig(sim.NewHost(simCam))
	config.Timeout = 10 * time.Millisecond
	c := New(config)

	ev := &events{}
	ev.watch(c)
	t.Cleanup(c.Release)
	return c, simCam, ev
}

func connected(t *testing.T, cfg sim.Config) (*Camera, *sim.Camera, *events) {
	t.Helper()
	c, simCam, ev := newSim(t, cfg)
	require.NoError(t, c.Connect())
	return c, simCam, ev
}

func mt9Config() sim.Config {
	cfg := sim.DefaultConfig("PSI-MT9")
	cfg.Chip = sim.ChipMT9
	cfg.Monochrome = true
	cfg.Registers = map[uint16]uint16{
		0x3002: 4,
		0x3004: 2,
		0x3006: 483,
		0x3008: 641,
		0x30b0: 0,
	}
	return cfg
}

func TestConnectConfiguresFromQuery(t *testing.T) {
	c, _, ev := connected(t, sim.DefaultConfig("PSI-0001"))

	assert.True(t, c.Connected())
	assert.Equal(t, "PSI-0001", c.Serial())
	assert.Equal(t, "v024", c.Chip())
	assert.False(t, c.Monochrome())
	assert.Equal(t, decode.BGGR, c.Pattern())
	assert.Equal(t, 2, c.Contexts())
	assert.Equal(t, 0, c.Context())

	q := c.Query()
	assert.True(t, q.Known)
	assert.Equal(t, []byte{0x00, 0x01, 0x02, 0x05, 0x06, 0x07, 0x08}, q.Devices)

	w, h := c.Size()
	assert.Equal(t, 752, w)
	assert.Equal(t, 480, h)

	assert.Equal(t, []string{
		"LEDArray", "Lock", "Name", "Prox", "Query", "Serial", "Storage0", "Storage1",
	}, c.Devices())
	assert.Len(t, c.Features(), 223)
	assert.Contains(t, c.Aliases(), "Gain")
	assert.Equal(t, 752, c.Alias("Width").Value())
	assert.True(t, c.IsGeneric(c.Feature("A: Global Analog Gain")))
	assert.False(t, c.IsGeneric(c.Feature("B: Global Analog Gain")))

	assert.Equal(t, []bool{true}, ev.connections)
	assert.Equal(t, 1, ev.refreshed)

	// A second connect keeps the claim and fires nothing.
	require.NoError(t, c.Connect())
	assert.Equal(t, []bool{true}, ev.connections)
}

func TestConnectMonochromeRangeCamera(t *testing.T) {
	c, _, _ := connected(t, mt9Config())

	assert.Equal(t, "mt9", c.Chip())
	assert.True(t, c.Monochrome())
	assert.Equal(t, decode.GRBG, c.Pattern())

	w, h := c.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestConnectNoCamera(t *testing.T) {
	c := New(DefaultConfig(sim.NewHost()))

	err := c.Connect()
	assert.ErrorIs(t, err, transport.ErrNoDevice)
	assert.False(t, c.Connected())
	assert.Empty(t, c.Chip())
	assert.Nil(t, c.Feature("A: Window Width"))
	assert.Nil(t, c.Features())

	_, err = c.Grab(CaptureNormal, 0)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, c.Refresh(), ErrNotConfigured)
}

func TestConnectReleasesWhenRefreshFails(t *testing.T) {
	c, simCam, ev := newSim(t, sim.DefaultConfig("PSI-0001"))

	// The Query read and all three page attempts come back short.
	simCam.ShortReads(1 + RefreshAttempts)

	err := c.Connect()
	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.ErrorIs(t, err, transport.ErrShortTransfer)
	assert.False(t, c.Connected())
	assert.False(t, simCam.Claimed())
	assert.Empty(t, ev.connections, "an unconfigured claim is never announced")
	assert.Equal(t, 0, ev.refreshed)
}

func TestSetContextFailureWithReentrantHandler(t *testing.T) {
	c, simCam, _ := connected(t, sim.DefaultConfig("PSI-0001"))

	contexts := make(chan int, 1)
	c.OnConnectionChanged(func(connected bool) {
		if !connected {
			contexts <- c.Context()
		}
	})
	simCam.FailWrites(100, usb.CodeTimeout)

	done := make(chan bool, 1)
	go func() { done <- c.SetContext(1) }()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("SetContext did not return")
	}
	assert.Equal(t, 0, <-contexts)
	assert.False(t, c.Connected())
}

func TestConnectionHandlerSeesConfiguredCamera(t *testing.T) {
	c, _, _ := newSim(t, sim.DefaultConfig("PSI-0001"))

	var seen []string
	c.OnConnectionChanged(func(connected bool) {
		w, h := c.Size()
		seen = append(seen, fmt.Sprintf("%v:%s:%dx%d", connected, c.Chip(), w, h))
	})

	require.NoError(t, c.Connect())
	c.Release()

	assert.Equal(t, []string{"true:v024:752x480", "false:v024:752x480"}, seen)
}

func TestRefreshRetriesPage(t *testing.T) {
	c, simCam, ev := connected(t, sim.DefaultConfig("PSI-0001"))

	simCam.SetRegister(0x04, 320)
	simCam.ShortReads(RefreshAttempts - 1)

	require.NoError(t, c.Refresh())
	assert.Equal(t, 320, c.Feature("A: Window Width").Value())
	assert.Equal(t, 2, ev.refreshed)
	assert.True(t, c.Connected())
}

func TestDescriptionOverride(t *testing.T) {
	desc, err := description.Load(strings.NewReader(`
chip: custom
contexts: 1
pattern: RGGB
aliases:
  - {name: Width, feature: W}
  - {name: Height, feature: H}
registers:
  - address: 0x03
    features: [{name: H, bits: 9, min: 1, max: 480, default: 480}]
  - address: 0x04
    features: [{name: W, bits: 10, min: 1, max: 752, default: 752}]
`))
	require.NoError(t, err)

	simCam := sim.NewCamera(sim.DefaultConfig("PSI-0001"))
	config := DefaultConfig(sim.NewHost(simCam))
	config.Description = desc
	c := New(config)
	require.NoError(t, c.Connect())
	defer c.Release()

	assert.Equal(t, "custom", c.Chip())
	assert.Equal(t, decode.RGGB, c.Pattern())
	assert.Equal(t, []string{"H", "W"}, c.Features())

	w, h := c.Size()
	assert.Equal(t, 752, w)
	assert.Equal(t, 480, h)

	// No Context alias: switching is refused.
	assert.False(t, c.SetContext(0))
}

func TestUnknownChipFallsBack(t *testing.T) {
	cfg := sim.DefaultConfig("PSI-0001")
	cfg.Chip = 0x7f
	cfg.AddressSize = 2
	c, _, _ := connected(t, cfg)

	assert.Equal(t, "v024", c.Chip())
}

func TestSetContext(t *testing.T) {
	cfg := sim.DefaultConfig("PSI-0001")
	cfg.Registers[0xcb] = 240
	cfg.Registers[0xcc] = 320

	plog := &recordingLogger{}
	simCam := sim.NewCamera(cfg)
	config := DefaultConfig(sim.NewHost(simCam))
	config.ProtocolLogger = plog
	c := New(config)
	require.NoError(t, c.Connect())
	defer c.Release()

	require.True(t, c.SetContext(1))
	assert.Equal(t, 1, c.Context())
	assert.Equal(t, uint16(0x8388), simCam.Register(0x07))

	w, h := c.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)

	w, h = c.SizeIn(0)
	assert.Equal(t, 752, w)
	assert.Equal(t, 480, h)

	assert.False(t, c.SetContext(2))
	assert.Equal(t, 1, c.Context())

	// A refresh follows the hardware context bit.
	simCam.SetRegister(0x07, 0x0388)
	require.NoError(t, c.Refresh())
	assert.Equal(t, 0, c.Context())

	var contextEvents []*log.StateChangeEvent
	for _, e := range plog.all() {
		if e.StateChange != nil && e.StateChange.Entity == log.StateEntityContext {
			contextEvents = append(contextEvents, e.StateChange)
		}
	}
	require.Len(t, contextEvents, 1)
	assert.Equal(t, "0", contextEvents[0].OldState)
	assert.Equal(t, "1", contextEvents[0].NewState)
}

func TestSetWindow(t *testing.T) {
	c, simCam, _ := connected(t, sim.DefaultConfig("PSI-0001"))

	require.True(t, c.SetWindow(0, 32, 32, 128, 96))
	assert.Equal(t, uint16(33), simCam.Register(0x01))
	assert.Equal(t, uint16(36), simCam.Register(0x02))
	assert.Equal(t, uint16(96), simCam.Register(0x03))
	assert.Equal(t, uint16(128), simCam.Register(0x04))

	w, h := c.Size()
	assert.Equal(t, 128, w)
	assert.Equal(t, 96, h)

	require.True(t, c.SetWindow(0, 0, 0, -1, -1))
	w, h = c.Size()
	assert.Equal(t, 752, w)
	assert.Equal(t, 480, h)

	assert.False(t, c.SetWindow(5, 0, 0, 10, 10))
}

func TestSetWindowByRange(t *testing.T) {
	c, simCam, _ := connected(t, mt9Config())

	require.True(t, c.SetWindow(0, 10, 20, 64, 48))
	assert.Equal(t, uint16(12), simCam.Register(0x3004))
	assert.Equal(t, uint16(24), simCam.Register(0x3002))
	assert.Equal(t, uint16(75), simCam.Register(0x3008))
	assert.Equal(t, uint16(71), simCam.Register(0x3006))

	w, h := c.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 48, h)
}

func TestGrab(t *testing.T) {
	c, simCam, _ := connected(t, sim.DefaultConfig("PSI-0001"))
	require.True(t, c.SetWindow(0, 0, 0, 16, 12))

	frame, err := c.Grab(CaptureNormal, 3)
	require.NoError(t, err)

	assert.Equal(t, 16, frame.Width)
	assert.Equal(t, 12, frame.Height)
	assert.Equal(t, sim.Gradient(1, 16*12), frame.Data)
	assert.False(t, frame.Monochrome)
	assert.Equal(t, decode.BGGR, frame.Pattern)
	assert.Equal(t, 1, simCam.Captures())

	frames := simCam.Frames()
	last := frames[len(frames)-1]
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0x00, 3, 192, 0, 0, 0xff}, last)

	img, err := frame.Decode(true, decode.RGB)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Width)
	assert.Equal(t, 8, img.Height)

	grey, err := frame.Decode(false, decode.BGR)
	require.NoError(t, err)
	r, g, b := grey.RGB(0, 0)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestGrabModes(t *testing.T) {
	c, simCam, _ := connected(t, sim.DefaultConfig("PSI-0001"))
	require.True(t, c.SetWindow(0, 0, 0, 8, 8))

	for _, mode := range []CaptureMode{CaptureNormal, CaptureMaster, CaptureSlaveRising, CaptureSlaveFalling} {
		t.Run(mode.String(), func(t *testing.T) {
			_, err := c.Grab(mode, 0)
			require.NoError(t, err)

			frames := simCam.Frames()
			assert.Equal(t, byte(mode.Opcode()), frames[len(frames)-1][5])
		})
	}
}

func TestGrabMonochrome(t *testing.T) {
	c, _, _ := connected(t, mt9Config())
	require.True(t, c.SetWindow(0, 0, 0, 4, 3))

	frame, err := c.Grab(CaptureNormal, 0)
	require.NoError(t, err)
	assert.True(t, frame.Monochrome)

	img, err := frame.Decode(true, decode.RGB)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 3, img.Height)
	r, _, _ := img.RGB(1, 0)
	assert.Equal(t, frame.Data[1], r)
}

func TestGrabUnplugged(t *testing.T) {
	c, simCam, ev := connected(t, sim.DefaultConfig("PSI-0001"))
	require.True(t, c.SetWindow(0, 0, 0, 8, 8))

	simCam.Unplug()
	_, err := c.Grab(CaptureNormal, 0)
	assert.ErrorIs(t, err, usb.CodeNoDevice)
	assert.False(t, c.Connected())
	assert.Equal(t, []bool{true, false}, ev.connections)
	assert.Equal(t, []string{"NoDevice"}, ev.errors)

	simCam.Plug()
	require.NoError(t, c.Connect())
	assert.Equal(t, []bool{true, false, true}, ev.connections)
}

func TestCaptureMode(t *testing.T) {
	tests := []struct {
		mode   CaptureMode
		name   string
		opcode transport.Opcode
	}{
		{CaptureNormal, "normal", transport.OpCapture},
		{CaptureMaster, "master", transport.OpMasterCapture},
		{CaptureSlaveRising, "slave-rising", transport.OpSlaveCaptureRising},
		{CaptureSlaveFalling, "slave-falling", transport.OpSlaveCaptureFalling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.mode.String())
			assert.Equal(t, tt.opcode, tt.mode.Opcode())

			got, err := ParseCaptureMode(strings.ToUpper(tt.name))
			require.NoError(t, err)
			assert.Equal(t, tt.mode, got)
		})
	}

	_, err := ParseCaptureMode("burst")
	assert.Error(t, err)
	assert.Equal(t, "CaptureMode(9)", CaptureMode(9).String())
	assert.Equal(t, transport.OpCapture, CaptureMode(9).Opcode())
}

func TestSnapshotApply(t *testing.T) {
	c, simCam, _ := connected(t, sim.DefaultConfig("PSI-0001"))

	snap := c.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, "PSI-0001", snap.Serial)
	assert.Equal(t, "v024", snap.Chip)
	assert.Equal(t, 752, snap.Features["A: Window Width"])
	assert.NotContains(t, snap.Features, "Frame Dark Average")

	width := c.Feature("A: Window Width")
	require.True(t, width.Set(640))
	assert.Equal(t, uint16(640), simCam.Register(0x04))

	require.NoError(t, c.Apply(snap))
	assert.Equal(t, 752, width.Value())
	assert.Equal(t, uint16(752), simCam.Register(0x04))

	snap.Chip = "mt9"
	assert.ErrorIs(t, c.Apply(snap), ErrChipMismatch)

	snap.Chip = "v024"
	snap.Features = map[string]int{"A: Window Width": 5000, "Missing": 1}
	err := c.Apply(snap)
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorContains(t, err, "A: Window Width")
	assert.NotContains(t, err.Error(), "Missing")
}

func TestRegisterAccess(t *testing.T) {
	c, simCam, _ := connected(t, sim.DefaultConfig("PSI-0001"))

	require.NoError(t, c.WriteRegister(0x04, 600))
	assert.Equal(t, uint16(600), simCam.Register(0x04))
	assert.Equal(t, 600, c.Feature("A: Window Width").Value())

	simCam.SetRegister(0x1234, 0xbeef)
	v, err := c.ReadRegister(0x1234)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xbeef), v)
}

func TestResets(t *testing.T) {
	c, simCam, _ := connected(t, sim.DefaultConfig("PSI-0001"))

	require.NoError(t, c.ResetChip())
	assert.Equal(t, 1, simCam.ChipResets())

	require.NoError(t, c.Reset())
	require.NoError(t, c.ResetFirmware())
	assert.Equal(t, 2, simCam.Resets())
}

func TestList(t *testing.T) {
	a := sim.NewCamera(sim.DefaultConfig("PSI-A"))
	b := sim.NewCamera(sim.DefaultConfig("PSI-B"))
	c := New(DefaultConfig(sim.NewHost(a, b)))

	cameras, err := c.List()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"PSI-A": "PSI Camera", "PSI-B": "PSI Camera"}, cameras)
}

type recordingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recordingLogger) Log(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingLogger) all() []log.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]log.Event(nil), r.events...)
}
