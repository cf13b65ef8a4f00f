package camera

import (
	"time"

	"github.com/psinc/psinc-go/pkg/log"
)

func (c *Camera) debugLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Camera) infoLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *Camera) warnLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func (c *Camera) event(cat log.Category) log.Event {
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.transport.ConnectionID(),
		Direction:    log.DirectionIn,
		Layer:        log.LayerDriver,
		Category:     cat,
		Serial:       c.transport.Serial(),
	}
}

func (c *Camera) logState(entity log.StateEntity, oldState, newState, reason string) {
	e := c.event(log.CategoryState)
	e.StateChange = &log.StateChangeEvent{
		Entity:   entity,
		OldState: oldState,
		NewState: newState,
		Reason:   reason,
	}
	c.plog.Log(e)
}

func (c *Camera) logError(msg, context string) {
	e := c.event(log.CategoryError)
	e.Error = &log.ErrorEventData{
		Layer:   log.LayerDriver,
		Message: msg,
		Context: context,
	}
	c.plog.Log(e)
}
