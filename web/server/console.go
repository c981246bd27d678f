package server

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/df07/go-lumen2d/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warning", "error"
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	debug       atomic.Bool
}

// newLogger creates the console logger for one render, honoring the server's debug flag
func (s *Server) newLogger(renderID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	wl := NewWebLogger(renderID, consoleChan)
	wl.SetDebug(s.debug)
	return wl
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

var _ core.Logger = (*WebLogger)(nil)

func (wl *WebLogger) DebugEnabled() bool    { return wl.debug.Load() }
func (wl *WebLogger) SetDebug(enabled bool) { wl.debug.Store(enabled) }

func (wl *WebLogger) Debugf(format string, args ...any) {
	if wl.DebugEnabled() {
		wl.send("debug", format, args...)
	}
}

func (wl *WebLogger) Infof(format string, args ...any)  { wl.send("info", format, args...) }
func (wl *WebLogger) Warnf(format string, args ...any)  { wl.send("warning", format, args...) }
func (wl *WebLogger) Errorf(format string, args ...any) { wl.send("error", format, args...) }

func (wl *WebLogger) send(level, format string, args ...any) {
	message := fmt.Sprintf(format, args...)

	// Also write to the server log
	log.Printf("[%s] %s: %s", wl.renderID, level, message)

	// Send to web console if channel is available (non-blocking)
	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- ConsoleMessage{
			RenderID:  wl.renderID,
			Message:   message,
			Timestamp: time.Now(),
			Level:     level,
		}:
		default:
			// Channel full, skip (don't block)
		}
	}
}
