package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Paintersrp/apphub/internal/engine"
)

// LogRecord represents a structured supervisor event ready for JSON encoding.
type LogRecord struct {
	Timestamp time.Time `json:"ts"`
	Level     string    `json:"level"`
	Message   string    `json:"msg"`
	Spec      string    `json:"spec,omitempty"`
	Pid       int       `json:"pid,omitempty"`
}

// NewLogRecord converts an engine event into a structured log record.
func NewLogRecord(event engine.Event) LogRecord {
	level := event.Level
	if level == "" {
		level = "info"
	}
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return LogRecord{
		Timestamp: ts,
		Level:     level,
		Message:   event.Message,
		Spec:      event.Spec,
		Pid:       event.Pid,
	}
}

// EncodeLogEvent encodes an event to JSON, reporting errors to stderr if needed.
func EncodeLogEvent(enc *json.Encoder, stderr io.Writer, event engine.Event) {
	if enc == nil {
		return
	}
	record := NewLogRecord(event)
	if err := enc.Encode(&record); err != nil {
		fmt.Fprintf(stderr, "error: encode log: %v\n", err)
	}
}

// RenderLogEvent writes an event as a human-readable line.
func RenderLogEvent(w io.Writer, event engine.Event) {
	record := NewLogRecord(event)
	switch {
	case record.Spec != "" && record.Pid > 0:
		fmt.Fprintf(w, "  - %s  -> %s (pid %d)\n", record.Spec, record.Message, record.Pid)
	case record.Spec != "":
		fmt.Fprintf(w, "  - %s  -> %s\n", record.Spec, record.Message)
	case record.Level == engine.LevelWarn:
		fmt.Fprintf(w, "warning: %s\n", record.Message)
	default:
		fmt.Fprintln(w, record.Message)
	}
}
