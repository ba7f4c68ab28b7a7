package logger

import (
	"log"

	"github.com/xy-planning-network/switchboard"
)

// A LoggerOptFn is a functional option configuring a SwitchboardLogger when constructing a new one.
type LoggerOptFn func(*SwitchboardLogger)

// WithEnv sets the environment SwitchboardLogger is operating in.
func WithEnv(env switchboard.Environment) func(*SwitchboardLogger) {
	return func(l *SwitchboardLogger) {
		l.env = env
	}
}

// WithLevel sets the log level SwitchboardLogger uses.
func WithLevel(level LogLevel) func(*SwitchboardLogger) {
	return func(l *SwitchboardLogger) {
		l.ll = level
	}
}

// WithLogger sets the log.Logger SwitchboardLogger uses.
func WithLogger(log *log.Logger) func(*SwitchboardLogger) {
	return func(l *SwitchboardLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) func(*SwitchboardLogger) {
	return func(l *SwitchboardLogger) {
		l.skip = skip
	}
}
