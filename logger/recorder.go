package logger

import (
	"context"
	"fmt"
	"sync"
)

// Record is a single captured log entry.
type Record struct {
	Level   LogLevel
	Message string
}

// Recorder captures log entries in memory. It is intended for tests that
// assert on warnings emitted during generation.
type Recorder struct {
	mu       sync.Mutex
	LogLevel LogLevel
	Records  []Record
}

// NewRecorder creates a recorder capturing everything down to info level.
func NewRecorder() *Recorder {
	return &Recorder{LogLevel: Info}
}

// LogMode sets the log level
func (r *Recorder) LogMode(level LogLevel) Interface {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LogLevel = level
	return r
}

// Info captures an info message
func (r *Recorder) Info(ctx context.Context, msg string, data ...interface{}) {
	r.append(Info, msg, data...)
}

// Warn captures a warning message
func (r *Recorder) Warn(ctx context.Context, msg string, data ...interface{}) {
	r.append(Warn, msg, data...)
}

// Error captures an error message
func (r *Recorder) Error(ctx context.Context, msg string, data ...interface{}) {
	r.append(Error, msg, data...)
}

func (r *Recorder) append(level LogLevel, msg string, data ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.LogLevel < level {
		return
	}
	r.Records = append(r.Records, Record{Level: level, Message: fmt.Sprintf(msg, data...)})
}

// Messages returns the captured messages at the given level.
func (r *Recorder) Messages(level LogLevel) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var msgs []string
	for _, rec := range r.Records {
		if rec.Level == level {
			msgs = append(msgs, rec.Message)
		}
	}
	return msgs
}

// Reset drops all captured records.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Records = nil
}
