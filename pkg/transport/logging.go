package transport

import (
	"time"

	"github.com/psinc/psinc-go/pkg/log"
)

func (t *Transport) debugLog(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Debug(msg, args...)
	}
}

func (t *Transport) infoLog(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Info(msg, args...)
	}
}

func (t *Transport) warnLog(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Warn(msg, args...)
	}
}

// The helpers below must be called with mu held.

func (t *Transport) event(dir log.Direction, cat log.Category) log.Event {
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: t.connID,
		Direction:    dir,
		Layer:        log.LayerTransport,
		Category:     cat,
		Serial:       t.serial,
	}
}

func (t *Transport) logFrame(dir log.Direction, data []byte, op Opcode, flush, hasOp bool) {
	e := t.event(dir, log.CategoryMessage)
	e.Frame = log.NewFrameEvent(data)
	if hasOp {
		e.Frame.WithOpcode(uint8(op))
	}
	e.Frame.Flush = flush && dir == log.DirectionOut
	t.plog.Log(e)
}

func (t *Transport) logState(oldState, newState, reason string) {
	e := t.event(log.DirectionIn, log.CategoryState)
	e.StateChange = &log.StateChangeEvent{
		Entity:   log.StateEntityConnection,
		OldState: oldState,
		NewState: newState,
		Reason:   reason,
	}
	t.plog.Log(e)
}

func (t *Transport) logError(msg string, code *int, context string) {
	e := t.event(log.DirectionIn, log.CategoryError)
	e.Error = &log.ErrorEventData{
		Layer:   log.LayerTransport,
		Message: msg,
		Code:    code,
		Context: context,
	}
	t.plog.Log(e)
}
