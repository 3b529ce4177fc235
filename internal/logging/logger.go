// Package logging configures the process-wide logrus logger used for
// debug tracing of git invocations and generation steps.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json, compact or simple
}

var (
	mu     sync.Mutex
	logger *logrus.Logger
)

// CompactFormatter renders "[LEVEL][component] message (k=v, ...)".
type CompactFormatter struct {
	ShowTime bool
}

// Format renders a single log entry.
func (f *CompactFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	if f.ShowTime {
		fmt.Fprintf(b, "[%s]", entry.Time.Format("15:04:05"))
	}
	fmt.Fprintf(b, "[%s]", strings.ToUpper(entry.Level.String()))
	if component, ok := entry.Data["component"]; ok {
		fmt.Fprintf(b, "[%v]", component)
	}
	b.WriteString(" ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != "component" {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		b.WriteString(" (")
		for i, key := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s=%v", key, entry.Data[key])
		}
		b.WriteString(")")
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// Init (re)configures the global logger. Output goes to w, or stderr when
// w is nil, so that generated source written to stdout stays clean.
func Init(config LogConfig, w io.Writer) *logrus.Logger {
	l := logrus.New()
	if w == nil {
		w = os.Stderr
	}
	l.SetOutput(w)

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.WarnLevel
		if config.Level != "" {
			l.Warnf("Invalid log level '%s', defaulting to 'warn'", config.Level)
		}
	}
	l.SetLevel(level)

	switch strings.ToLower(config.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	case "simple":
		l.SetFormatter(&CompactFormatter{ShowTime: false})
	case "compact", "":
		l.SetFormatter(&CompactFormatter{ShowTime: true})
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	default:
		l.SetFormatter(&CompactFormatter{ShowTime: true})
		l.Warnf("Invalid log format '%s', defaulting to 'compact'", config.Format)
	}

	mu.Lock()
	logger = l
	mu.Unlock()
	return l
}

// Logger returns the global logger, initializing a warn-level one on first use.
func Logger() *logrus.Logger {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l == nil {
		return Init(LogConfig{}, nil)
	}
	return l
}

// WithComponent returns an entry tagged with the emitting component.
func WithComponent(component string) *logrus.Entry {
	return Logger().WithField("component", component)
}
