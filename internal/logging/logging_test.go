package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdLoggerWritesLevelPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(log.New(&buf, "", 0))

	l.Warn("disk at %d%%", 90)
	assert.True(t, strings.Contains(buf.String(), "WARN"))
	assert.True(t, strings.Contains(buf.String(), "90%"))
}

func TestNewStdLoggerPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewStdLogger(nil) })
}

func TestDefaultIsStable(t *testing.T) {
	a := Default()
	b := Default()
	require.NotNil(t, a)
	assert.Same(t, a, b)
}

func TestSetDefaultOverrides(t *testing.T) {
	var buf bytes.Buffer
	custom := NewStdLogger(log.New(&buf, "", 0))
	SetDefault(custom)
	assert.Same(t, Logger(custom), Default())
}
