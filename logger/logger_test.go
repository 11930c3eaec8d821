package logger

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerLevels(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	l := New(log.New(&buf, "", 0), Config{LogLevel: Warn})

	l.Info(ctx, "info %s", "hidden")
	assert.Empty(t, buf.String())

	l.Warn(ctx, "warn %s", "visible")
	assert.Contains(t, buf.String(), "warn visible")

	buf.Reset()
	l.Error(ctx, "error %s", "visible")
	assert.Contains(t, buf.String(), "error visible")
}

func TestLogModeCopies(t *testing.T) {
	var buf bytes.Buffer
	l := New(log.New(&buf, "", 0), Config{LogLevel: Silent})

	verbose := l.LogMode(Info)
	verbose.Info(context.Background(), "now %s", "visible")
	assert.Contains(t, buf.String(), "now visible")

	buf.Reset()
	l.Info(context.Background(), "still silent")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Silent, ParseLevel("silent"))
	assert.Equal(t, Error, ParseLevel("error"))
	assert.Equal(t, Warn, ParseLevel("warn"))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Info, ParseLevel("info"))
	assert.Equal(t, Warn, ParseLevel("bogus"))
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	r.Warn(context.Background(), "dropped field %s on %s", "owner", "Invoice")
	r.Info(context.Background(), "mirrored %d models", 2)

	warnings := r.Messages(Warn)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Invoice")

	assert.Len(t, r.Messages(Info), 1)

	r.Reset()
	assert.Empty(t, r.Records)
}
