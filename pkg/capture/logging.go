package capture

import (
	"time"

	"github.com/psinc/psinc-go/pkg/camera"
	"github.com/psinc/psinc-go/pkg/decode"
	"github.com/psinc/psinc-go/pkg/log"
)

func (a *Acquirer) debugLog(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *Acquirer) infoLog(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Info(msg, args...)
	}
}

func (a *Acquirer) event(cat log.Category) log.Event {
	e := log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionIn,
		Layer:     log.LayerCapture,
		Category:  cat,
	}
	if id, ok := a.source.(identity); ok {
		e.ConnectionID = id.ConnectionID()
		e.Serial = id.Serial()
	}
	return e
}

func (a *Acquirer) logCapture(frame *camera.Frame, img *decode.Image, mode decode.ColourMode, d time.Duration) {
	e := a.event(log.CategoryMessage)
	e.Capture = &log.CaptureEvent{
		Width:    img.Width,
		Height:   img.Height,
		Bytes:    len(frame.Data),
		Duration: d,
		Mode:     mode.String(),
	}
	a.plog.Log(e)
}

func (a *Acquirer) logState(oldState, newState, reason string) {
	e := a.event(log.CategoryState)
	e.StateChange = &log.StateChangeEvent{
		Entity:   log.StateEntityAcquisition,
		OldState: oldState,
		NewState: newState,
		Reason:   reason,
	}
	a.plog.Log(e)
}
