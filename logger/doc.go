// Package logger provides the leveled logging used throughout switchboard.
//
// The zero-dependency path prints colorized, caller-annotated lines
// through the standard library's log package.
// When a SENTRY_DSN environment variable is present,
// [NewLogger] decorates that base logger with one shipping
// error-and-above events to Sentry.
//
// A [LogContext] carries the structured information a message cannot:
// the route being dispatched, the user it was dispatched for,
// and the error that instigated the event.
package logger
