package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

var levels = map[string]func(*logrus.Logger){
	"none":    func(l *logrus.Logger) { l.SetOutput(io.Discard) },
	"debug":   func(l *logrus.Logger) { l.SetLevel(logrus.DebugLevel) },
	"info":    func(l *logrus.Logger) { l.SetLevel(logrus.InfoLevel) },
	"warning": func(l *logrus.Logger) { l.SetLevel(logrus.WarnLevel) },
	"error":   func(l *logrus.Logger) { l.SetLevel(logrus.ErrorLevel) },
	"fatal":   func(l *logrus.Logger) { l.SetLevel(logrus.FatalLevel) },
}

// Levels returns the accepted level names, sorted.
func Levels() []string {
	names := make([]string, 0, len(levels))
	for k := range levels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// New returns a logger writing text records to out at the named level.
// An empty level means "info"; a nil out means stderr.
func New(level string, out io.Writer) (*logrus.Logger, error) {
	if level == "" {
		level = "info"
	}
	fn, ok := levels[level]
	if !ok {
		return nil, fmt.Errorf("invalid log level %q, valid levels are %v", level, Levels())
	}
	if out == nil {
		out = os.Stderr
	}
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	fn(l)
	return l, nil
}

// WithFile makes l write to path in addition to its current output. The
// returned closer closes the file.
func WithFile(l *logrus.Logger, path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.SetOutput(io.MultiWriter(l.Out, f))
	return f, nil
}

// WithNoStdout discards everything l writes to its primary output. Files added
// later with WithFile still receive records.
func WithNoStdout(l *logrus.Logger) {
	l.SetOutput(io.Discard)
}

var (
	discardOnce sync.Once
	discard     *logrus.Logger
)

// Discard returns a shared logger that drops every record. Components fall back
// to it when no logger is configured.
func Discard() *logrus.Logger {
	discardOnce.Do(func() {
		discard = logrus.New()
		discard.SetOutput(io.Discard)
		discard.SetLevel(logrus.PanicLevel)
	})
	return discard
}

// Component returns an entry tagged with the component name.
func Component(l *logrus.Logger, name string) *logrus.Entry {
	if l == nil {
		l = Discard()
	}
	return l.WithField("component", name)
}
