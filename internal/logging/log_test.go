package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)
	l.Errorf("boom %d", 1)
	l.Warnf("careful")
	l.Infof("hidden")
	l.Successf("hidden too")
	l.Debugf("hidden as well")
	assert.Equal(t, "✗ Error: boom 1\n⚠ Warning: careful\n", buf.String())
}

func TestLoggerDebugIncludesAll(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)
	l.Infof("loaded %d rows", 3)
	l.Successf("Wrote %s", "map.html")
	l.Debugf("seed=%d", 0)
	assert.Equal(t, "ℹ loaded 3 rows\n✓ Wrote map.html\n[debug] seed=0\n", buf.String())
}

func TestNilLoggerIsSilent(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Warnf("x")
		l.Infof("y")
	})
	assert.Equal(t, LevelError, l.Level())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"error": LevelError, "WARN": LevelWarn, "warning": LevelWarn,
		"": LevelInfo, "Info": LevelInfo, " debug ": LevelDebug,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}
