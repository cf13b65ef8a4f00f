package capture

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psinc/psinc-go/pkg/camera"
	"github.com/psinc/psinc-go/pkg/connection"
	"github.com/psinc/psinc-go/pkg/decode"
	"github.com/psinc/psinc-go/pkg/log"
	"github.com/psinc/psinc-go/pkg/usb/sim"
)

type fakeSource struct {
	mu         sync.Mutex
	connected  bool
	connectErr error
	grabErr    error
	monochrome bool

	connects int
	grabs    int
	releases int
	mode     camera.CaptureMode
	flash    byte
}

func (f *fakeSource) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeSource) Connect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeSource) Grab(mode camera.CaptureMode, flash byte) (*camera.Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grabs++
	f.mode = mode
	f.flash = flash
	if f.grabErr != nil {
		return nil, f.grabErr
	}
	return &camera.Frame{
		Data:       make([]byte, 64),
		Width:      8,
		Height:     8,
		Monochrome: f.monochrome,
		Pattern:    decode.BGGR,
		Mode:       mode,
	}, nil
}

func (f *fakeSource) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	f.connected = false
}

func (f *fakeSource) counts() (connects, grabs, releases int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connects, f.grabs, f.releases
}

func (f *fakeSource) last() (camera.CaptureMode, byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode, f.flash
}

func fastConfig() Config {
	config := DefaultConfig()
	config.Backoff = connection.BackoffConfig{
		Initial: 5 * time.Millisecond,
		Max:     20 * time.Millisecond,
		Jitter:  -1,
	}
	return config
}

func collect(a *Acquirer) <-chan *decode.Image {
	ch := make(chan *decode.Image, 256)
	a.OnAcquired(func(img *decode.Image) {
		select {
		case ch <- img:
		default:
		}
	})
	return ch
}

func nextImage(t *testing.T, ch <-chan *decode.Image) *decode.Image {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case img := <-ch:
			if img != nil {
				return img
			}
		case <-deadline:
			t.Fatal("no image acquired")
			return nil
		}
	}
}

func TestAcquirerConnectsThenGrabs(t *testing.T) {
	src := &fakeSource{}
	a := New(src, fastConfig())
	images := collect(a)

	require.NoError(t, a.Start())
	assert.True(t, a.Running())

	img := nextImage(t, images)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 4, img.Height)

	a.Close()
	assert.False(t, a.Running())

	connects, grabs, releases := src.counts()
	assert.Equal(t, 1, connects)
	assert.GreaterOrEqual(t, grabs, 1)
	assert.Equal(t, 1, releases)

	stats := a.Stats()
	assert.Equal(t, 1, stats.Connects)
	assert.GreaterOrEqual(t, stats.Frames, 1)
	assert.Equal(t, stats.Connects+stats.Frames+stats.Failures, stats.Iterations)
}

func TestAcquirerWithoutSubscribers(t *testing.T) {
	src := &fakeSource{}
	a := New(src, fastConfig())

	require.NoError(t, a.Start())
	time.Sleep(20 * time.Millisecond)
	a.Close()

	connects, grabs, _ := src.counts()
	assert.Zero(t, connects)
	assert.Zero(t, grabs)
	assert.Zero(t, a.Stats().Iterations)
}

func TestAcquirerReconnectBackoff(t *testing.T) {
	src := &fakeSource{connectErr: errors.New("no camera")}
	a := New(src, fastConfig())

	var mu sync.Mutex
	var nils int
	a.OnAcquired(func(img *decode.Image) {
		if img == nil {
			mu.Lock()
			nils++
			mu.Unlock()
		}
	})

	require.NoError(t, a.Start())
	require.Eventually(t, func() bool {
		connects, _, _ := src.counts()
		return connects >= 3
	}, time.Second, time.Millisecond)

	src.mu.Lock()
	src.connectErr = nil
	src.mu.Unlock()

	require.Eventually(t, func() bool {
		return a.Stats().Frames > 0
	}, time.Second, time.Millisecond)
	a.Close()

	assert.Equal(t, 1, a.Stats().Connects)
	assert.Zero(t, a.backoff.Attempts())
	mu.Lock()
	assert.Greater(t, nils, 3)
	mu.Unlock()
}

func TestAcquirerCloseInterruptsBackoff(t *testing.T) {
	src := &fakeSource{connectErr: errors.New("no camera")}
	config := fastConfig()
	config.Backoff = connection.BackoffConfig{Initial: time.Hour, Max: time.Hour, Jitter: -1}
	a := New(src, config)
	collect(a)

	require.NoError(t, a.Start())
	require.Eventually(t, func() bool {
		connects, _, _ := src.counts()
		return connects == 1
	}, time.Second, time.Millisecond)

	done := make(chan struct{})
	go func() {
		a.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not interrupt the backoff wait")
	}
}

func TestAcquirerPauseResume(t *testing.T) {
	src := &fakeSource{}
	a := New(src, fastConfig())
	images := collect(a)

	require.NoError(t, a.Start())
	defer a.Close()
	nextImage(t, images)

	a.Pause()
	assert.True(t, a.Paused())

	// Let the iteration in flight finish.
	time.Sleep(20 * time.Millisecond)
	_, before, _ := src.counts()
	time.Sleep(30 * time.Millisecond)
	_, after, _ := src.counts()
	assert.Equal(t, before, after)

	a.Resume()
	assert.False(t, a.Paused())
	require.Eventually(t, func() bool {
		_, grabs, _ := src.counts()
		return grabs > after
	}, time.Second, time.Millisecond)
}

func TestAcquirerCloseWhilePaused(t *testing.T) {
	src := &fakeSource{}
	a := New(src, fastConfig())
	images := collect(a)

	require.NoError(t, a.Start())
	nextImage(t, images)
	a.Pause()

	done := make(chan struct{})
	go func() {
		a.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked on the pause gate")
	}

	a.Pause()
	assert.False(t, a.Paused())

	_, _, releases := src.counts()
	assert.Equal(t, 1, releases)
}

func TestAcquirerLifecycle(t *testing.T) {
	src := &fakeSource{}
	a := New(src, fastConfig())

	require.NoError(t, a.Start())
	require.NoError(t, a.Start())

	a.Close()
	a.Close()
	_, _, releases := src.counts()
	assert.Equal(t, 1, releases)

	assert.ErrorIs(t, a.Start(), ErrClosed)
	assert.False(t, a.Running())
}

func TestAcquirerSetters(t *testing.T) {
	src := &fakeSource{}
	a := New(src, fastConfig())
	images := collect(a)

	require.NoError(t, a.Start())
	defer a.Close()
	nextImage(t, images)

	a.SetMode(camera.CaptureMaster)
	a.SetFlash(7)
	a.SetColour(true)
	a.SetSleep(2 * time.Millisecond)

	config := a.Config()
	assert.Equal(t, camera.CaptureMaster, config.Mode)
	assert.Equal(t, byte(7), config.Flash)
	assert.True(t, config.Colour)
	assert.Equal(t, 2*time.Millisecond, config.Sleep)

	require.Eventually(t, func() bool {
		mode, flash := src.last()
		return mode == camera.CaptureMaster && flash == 7
	}, time.Second, time.Millisecond)
}

func TestAcquirerGrabFailure(t *testing.T) {
	src := &fakeSource{connected: true, grabErr: errors.New("transfer failed")}
	a := New(src, fastConfig())

	var mu sync.Mutex
	var nils int
	a.OnAcquired(func(img *decode.Image) {
		if img == nil {
			mu.Lock()
			nils++
			mu.Unlock()
		}
	})

	require.NoError(t, a.Start())
	require.Eventually(t, func() bool {
		return a.Stats().Failures >= 2
	}, time.Second, time.Millisecond)
	a.Close()

	mu.Lock()
	assert.GreaterOrEqual(t, nils, 2)
	mu.Unlock()
	assert.Zero(t, a.Stats().Frames)
}

func TestAcquirerDecodeModes(t *testing.T) {
	tests := []struct {
		name       string
		monochrome bool
		colour     bool
		width      int
		grey       bool
	}{
		{"Monochrome", true, true, 8, true},
		{"BayerGrey", false, false, 4, true},
		{"BayerColour", false, true, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{connected: true, monochrome: tt.monochrome}
			config := fastConfig()
			config.Colour = tt.colour
			a := New(src, config)
			images := collect(a)

			require.NoError(t, a.Start())
			img := nextImage(t, images)
			a.Close()

			assert.Equal(t, tt.width, img.Width)
			r, g, b := img.RGB(0, 0)
			if tt.grey {
				assert.Equal(t, r, g)
				assert.Equal(t, g, b)
			}
		})
	}
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

func TestAcquirerProtocolLog(t *testing.T) {
	plog := &recordingLogger{}
	src := &fakeSource{connected: true}
	config := fastConfig()
	config.Colour = true
	config.ProtocolLogger = plog
	a := New(src, config)
	images := collect(a)

	require.NoError(t, a.Start())
	nextImage(t, images)
	a.Pause()
	a.Resume()
	a.Close()

	var states []string
	var capture *log.CaptureEvent
	for _, e := range plog.all() {
		assert.Equal(t, log.LayerCapture, e.Layer)
		if e.StateChange != nil {
			assert.Equal(t, log.StateEntityAcquisition, e.StateChange.Entity)
			states = append(states, e.StateChange.NewState)
		}
		if e.Capture != nil && capture == nil {
			capture = e.Capture
		}
	}

	assert.Equal(t, []string{"running", "paused", "running", "stopped"}, states)
	require.NotNil(t, capture)
	assert.Equal(t, 4, capture.Width)
	assert.Equal(t, 4, capture.Height)
	assert.Equal(t, 64, capture.Bytes)
	assert.Equal(t, "colour", capture.Mode)
}

func TestAcquirerWithSimulatedCamera(t *testing.T) {
	simCam := sim.NewCamera(sim.DefaultConfig("PSI-0001"))
	config := camera.DefaultConfig(sim.NewHost(simCam))
	config.Timeout = 5 * time.Millisecond
	cam := camera.New(config)

	require.NoError(t, cam.Connect())
	require.True(t, cam.SetWindow(0, 0, 0, 16, 12))

	acqConfig := fastConfig()
	acqConfig.Colour = true
	acqConfig.Order = decode.RGB
	a := New(cam, acqConfig)
	images := collect(a)

	require.NoError(t, a.Start())

	img := nextImage(t, images)
	assert.Equal(t, 12, img.Width)
	assert.Equal(t, 8, img.Height)

	simCam.Unplug()
	require.Eventually(t, func() bool { return !cam.Connected() }, time.Second, time.Millisecond)

	simCam.Plug()
	require.Eventually(t, func() bool { return a.Stats().Connects >= 1 }, 2*time.Second, time.Millisecond)

	img = nextImage(t, images)
	assert.Equal(t, 12, img.Width)

	a.Close()
	assert.False(t, cam.Connected())
	assert.False(t, simCam.Claimed())
}
