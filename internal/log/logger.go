// Package log wraps log/slog with a component tag and request-scoped
// loggers carried in the context.
package log

import (
	"log/slog"
	"os"
)

// Logger is a slog.Logger that remembers which component it belongs to.
type Logger struct {
	*slog.Logger
	component string
}

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
	// Handler replaces the default text handler on stdout.
	Handler slog.Handler
}

// DefaultConfig logs text at info level.
func DefaultConfig() Config {
	return Config{Level: slog.LevelInfo, Component: ComponentApp}
}

// New creates a logger from config.
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: config.Level})
	}
	return wrap(slog.New(handler), config.Component)
}

func wrap(base *slog.Logger, component string) *Logger {
	if component != "" {
		base = base.With(FieldComponent, component)
	}
	return &Logger{Logger: base, component: component}
}

// With returns a logger with extra attributes and the same component.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), component: l.component}
}

// WithComponent tags the logger with component. Asking for the component
// the logger already has returns it unchanged.
func (l *Logger) WithComponent(component string) *Logger {
	if component == l.component {
		return l
	}
	return &Logger{Logger: l.Logger.With(FieldComponent, component), component: component}
}

// SetDefault makes logger the slog default.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}

func (l *Logger) Component() string {
	return l.component
}
