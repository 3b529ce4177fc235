package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Levels(t *testing.T) {
	var buf bytes.Buffer

	l := Init(LogConfig{Level: "debug", Format: "simple"}, &buf)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l = Init(LogConfig{}, &buf)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	assert.Empty(t, buf.String(), "empty level should not warn")

	l = Init(LogConfig{Level: "loud"}, &buf)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level 'loud'")
}

func TestWithComponent_UsesGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(LogConfig{Level: "debug", Format: "simple"}, &buf)

	WithComponent("git").WithField("exit_code", 0).Debug("ran command")

	assert.Equal(t, "[DEBUG][git] ran command (exit_code=0)\n", buf.String())
}

func TestCompactFormatter_SortsFields(t *testing.T) {
	f := &CompactFormatter{}
	entry := logrus.NewEntry(logrus.New())
	entry.Level = logrus.InfoLevel
	entry.Message = "generated"
	entry.Data = logrus.Fields{"target": "App.Foo", "artifact": "App.Foo.cs", "component": "generator"}

	out, err := f.Format(entry)
	require.NoError(t, err)
	line := string(out)
	assert.True(t, strings.HasPrefix(line, "[INFO][generator] generated ("), line)
	assert.Contains(t, line, "(artifact=App.Foo.cs, target=App.Foo)")
}
