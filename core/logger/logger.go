// Package logger is a standardized event logging framework for the
// shell: every executed line becomes one structured event.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// Event describes one executed command line.
type Event struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	// Line is the raw input as typed, before tokenization.
	Line        string `json:"line"`
	NumCommands int    `json:"num_commands"`
	ExitStatus  int    `json:"exit_status"`

	DurationMicros int64 `json:"duration_micros"`

	// Error holds an orchestration failure message, if any.
	Error string `json:"error,omitempty"`
}

// Recorder is a callback that stores events in an external datastore.
type Recorder func(ev *Event) error

// Logger captures shell interaction events.
type Logger struct {
	Record Recorder
}

// NewJSONLinesRecorder creates a Logger that exports events in
// newline delimited JSON object format.
func NewJSONLinesRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(ev *Event) error {
			entry, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopRecorder creates a Logger that discards every event.
func NewNopRecorder() *Logger {
	return &Logger{
		Record: func(ev *Event) error { return nil },
	}
}

// NewSession creates a logger with an attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// SessionLogger logs events with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// RecordLine records one executed line and its outcome.
func (s *SessionLogger) RecordLine(line string, numCommands, exitStatus int, duration time.Duration, runErr error) error {
	ev := &Event{
		TimestampMicros: time.Now().UnixMicro(),
		SessionID:       s.sessionID,
		Line:            line,
		NumCommands:     numCommands,
		ExitStatus:      exitStatus,
		DurationMicros:  duration.Microseconds(),
	}
	if runErr != nil {
		ev.Error = runErr.Error()
	}
	return s.Record(ev)
}

// ReadJSONLinesLog parses a newline delimited JSON event log.
func ReadJSONLinesLog(r io.Reader, handler func(ev *Event)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var ev Event
		if err := decoder.Decode(&ev); err != nil {
			return err
		}
		handler(&ev)
	}
	return nil
}
