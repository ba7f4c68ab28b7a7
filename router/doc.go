// Package router resolves route collection values to results.
//
// A [Router] owns a prioritized list of override rules.
// Each call first consults that list:
// the most recently registered matching override answers the call
// with its canned result, and live execution is suppressed.
// When nothing matches, the router resolves the value's route,
// hands it to its [Executor] exactly once,
// and decodes the raw response through its [Codec].
//
// Overrides make a router trivial to stand up in tests and previews:
// construct one without an Executor and every unmocked call
// fails hard with a not-configured error
// instead of degrading quietly.
package router
