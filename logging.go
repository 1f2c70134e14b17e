package shaderlab

import (
	"io"
	"os"
	"sync"

	"github.com/op/go-logging"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

var logFormat = logging.MustStringFormatter(
	"%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}",
)

// DefaultLogger writes debug and info lines to one sink and warnings and
// errors to another, each through its own go-logging backend.
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	module string

	outLevel logging.LeveledBackend
	out      *logging.Logger
	err      *logging.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewDefaultLoggerTo(prefix, debug, os.Stdout, os.Stderr)
}

func NewDefaultLoggerTo(prefix string, debug bool, stdout, stderr io.Writer) *DefaultLogger {
	if prefix == "" {
		prefix = "shaderlab"
	}

	l := &DefaultLogger{
		debug:    debug,
		module:   prefix,
		outLevel: leveledBackend(stdout, prefix, logging.INFO),
		out:      logging.MustGetLogger(prefix),
		err:      logging.MustGetLogger(prefix),
	}
	l.out.SetBackend(l.outLevel)
	l.err.SetBackend(leveledBackend(stderr, prefix, logging.WARNING))
	if debug {
		l.outLevel.SetLevel(logging.DEBUG, prefix)
	}
	return l
}

func leveledBackend(w io.Writer, module string, level logging.Level) logging.LeveledBackend {
	backend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), logFormat)
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(level, module)
	return leveled
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	if enabled {
		l.outLevel.SetLevel(logging.DEBUG, l.module)
	} else {
		l.outLevel.SetLevel(logging.INFO, l.module)
	}
	l.mu.Unlock()
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	l.out.Debugf(format, args...)
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Infof(format, args...)
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Warningf(format, args...)
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Errorf(format, args...)
}

// LoggingModule installs a default logger as a resource.
type LoggingModule struct {
	Prefix string
	Debug  bool
}

func (m LoggingModule) Step() string { return "logging" }

func (m LoggingModule) Install(app *App, cmd *Commands) error {
	debug := m.Debug
	if cfg, ok := Resource[Config](app); ok && cfg.Debug {
		debug = true
	}
	cmd.AddResources(NewDefaultLogger(m.Prefix, debug))
	return nil
}

// Nop logger and App helper accessor

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool { return false }
func (n *nopLogger) SetDebug(enabled bool) {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any) {}
func (n *nopLogger) Warnf(format string, args ...any) {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// Logger returns the first Logger resource if present, otherwise a no-op logger.
// Safe to call at any time; never returns nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
