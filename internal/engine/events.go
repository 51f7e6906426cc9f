package engine

import "time"

// Event levels.
const (
	LevelInfo = "info"
	LevelWarn = "warn"
)

// Event is a single user-visible occurrence in the supervisor's lifecycle.
// Spec and Pid are set when the event concerns one concrete command or
// process.
type Event struct {
	Timestamp time.Time
	Level     string
	Message   string
	Spec      string
	Pid       int
}

// Sink consumes events. Delivery is synchronous on the control thread; a nil
// sink discards events.
type Sink func(Event)

func emit(sink Sink, level, message, specStr string, pid int) {
	if sink == nil {
		return
	}
	sink(Event{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Spec:      specStr,
		Pid:       pid,
	})
}
