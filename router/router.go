package router

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/xy-planning-network/switchboard"
	"github.com/xy-planning-network/switchboard/logger"
	"github.com/xy-planning-network/switchboard/route"
)

// A producerFn builds the result an override answers a matching call with.
// It receives the original, unresolved collection value
// so matching-aware mocks can inspect what they are standing in for.
// A nil producerFn means "succeed with a void result".
type producerFn[R route.Collection] func(ctx context.Context, rc R) (any, error)

type overrideEntry[R route.Collection] struct {
	match   Override[R]
	produce producerFn[R]
}

// Config holds the collaborators a Router is constructed with.
//
// Zero-value fields fall back to defaults:
// an [Unimplemented] executor, the [JSONCodec], and [logger.NewLogger].
type Config struct {
	Executor Executor
	Codec    Codec
	Logger   logger.Logger
}

// A Router is the single entry point application code calls
// with a route collection value.
//
// It owns exactly one override store, created empty at construction
// and mutated only through the Override methods and ResetOverrides.
// Route collection values and routes are transient and immutable,
// so a Router is safe for concurrent calls;
// an override registration is visible to every call beginning after
// the registration completes.
type Router[R route.Collection] struct {
	exec  Executor
	codec Codec
	log   logger.Logger

	mu        sync.RWMutex
	overrides []overrideEntry[R]
}

// New constructs a *Router from cfg, filling in defaults
// for any collaborator cfg leaves unset.
func New[R route.Collection](cfg Config) *Router[R] {
	rtr := &Router[R]{
		exec:  cfg.Executor,
		codec: cfg.Codec,
		log:   cfg.Logger,
	}
	if rtr.exec == nil {
		rtr.exec = Unimplemented()
	}
	if rtr.codec == nil {
		rtr.codec = JSONCodec()
	}
	if rtr.log == nil {
		rtr.log = logger.NewLogger()
	}

	return rtr
}

// **************************************************************************
// OVERRIDE REGISTRATION
//
// These methods mutate the Router's override store.
// Registration is untyped by design so the store can hold
// heterogeneous rules; a result incompatible with what a caller
// requests surfaces as ErrOverride at call time.
// **************************************************************************

// Override registers rule answering matching calls with a void success.
//
// A decoding call hitting a void override fails with ErrOverride,
// never with a silently-decoded zero value.
func (rtr *Router[R]) Override(rule Override[R]) {
	rtr.insert(rule, nil)
}

// OverrideValue registers rule answering matching calls with value.
func (rtr *Router[R]) OverrideValue(rule Override[R], value any) {
	rtr.insert(rule, func(context.Context, R) (any, error) {
		return value, nil
	})
}

// OverrideError registers rule answering matching calls with err,
// propagated to the caller as-is.
func (rtr *Router[R]) OverrideError(rule Override[R], err error) {
	rtr.insert(rule, func(context.Context, R) (any, error) {
		return nil, err
	})
}

// OverrideFunc registers rule answering matching calls by invoking produce
// with the original, unresolved collection value.
func (rtr *Router[R]) OverrideFunc(rule Override[R], produce func(ctx context.Context, rc R) (any, error)) {
	rtr.insert(rule, produce)
}

// ResetOverrides clears every registered override.
// The next call for a previously-overridden route falls through to live execution.
func (rtr *Router[R]) ResetOverrides() {
	rtr.mu.Lock()
	defer rtr.mu.Unlock()

	rtr.overrides = nil
}

func (rtr *Router[R]) insert(rule Override[R], produce producerFn[R]) {
	rtr.mu.Lock()
	defer rtr.mu.Unlock()

	rtr.overrides = append(rtr.overrides, overrideEntry[R]{match: rule, produce: produce})
}

// firstMatch scans the override store newest-first and returns
// the producer of the first rule matching rc.
// The most recently registered override wins,
// letting a broad early rule be carved out by a narrow later one.
func (rtr *Router[R]) firstMatch(ctx context.Context, rc R) (producerFn[R], bool, error) {
	rtr.mu.RLock()
	snapshot := slices.Clone(rtr.overrides)
	rtr.mu.RUnlock()

	for i := len(snapshot) - 1; i >= 0; i-- {
		matched, err := snapshot[i].match(ctx, rc)
		if err != nil {
			return nil, false, err
		}

		if matched {
			return snapshot[i].produce, true, nil
		}
	}

	return nil, false, nil
}

// **************************************************************************
// DISPATCH
// **************************************************************************

// Run resolves rc to its effect without decoding a result.
//
// A matching override short-circuits live execution.
// Its producer still runs, so canned failures propagate,
// but a successful producer's payload is never examined.
func (rtr *Router[R]) Run(ctx context.Context, rc R) error {
	return rtr.call(ctx, rc, nil)
}

// Call resolves rc through rtr and decodes the result into a T.
//
// An overridden call's payload is encoded and decoded through
// the same codec live responses use;
// a payload incompatible with T fails with ErrOverride.
// A live call executes exactly once - results are never cached,
// so overrides registered between calls take effect immediately.
//
// Call is a package-level function because decoding introduces
// a type parameter methods cannot; [CallScoped] is its
// counterpart for a *Proxy.
func Call[T any, R route.Collection](ctx context.Context, rtr *Router[R], rc R) (T, error) {
	var dest T
	if err := rtr.call(ctx, rc, &dest); err != nil {
		var zero T
		return zero, err
	}

	return dest, nil
}

// call is the single-shot dispatch sequence:
// override lookup, then either the override's result or a live execution,
// then decoding into dest when the caller wants one.
//
// Every error propagates after logging; the router never recovers
// internally and never falls back to a default value.
func (rtr *Router[R]) call(ctx context.Context, rc R, dest any) error {
	produce, matched, err := rtr.firstMatch(ctx, rc)
	if err != nil {
		return rtr.logErr("matching overrides failed", err, nil)
	}

	if matched {
		return rtr.applyOverride(ctx, rc, produce, dest)
	}

	resolved, err := rc.Resolve(ctx)
	if err != nil {
		return rtr.logErr("resolving route failed", err, nil)
	}

	raw, err := rtr.exec.Execute(ctx, resolved)
	if err != nil {
		return rtr.logErr("executing route failed", err, &resolved)
	}

	if dest == nil {
		return nil
	}

	if err := rtr.codec.Decode(raw, dest); err != nil {
		err = fmt.Errorf("%w: decoding response into %T: %s", switchboard.ErrDecode, dest, err)
		return rtr.logErr("decoding response failed", err, &resolved)
	}

	return nil
}

// applyOverride answers a matched call from the override's producer,
// normalizing successful payloads through the codec's encode/decode path.
func (rtr *Router[R]) applyOverride(ctx context.Context, rc R, produce producerFn[R], dest any) error {
	if produce == nil {
		if dest == nil {
			return nil
		}

		err := fmt.Errorf("%w: override provides no value to decode into %T", switchboard.ErrOverride, dest)
		return rtr.logErr("override has no value", err, nil)
	}

	value, err := produce(ctx, rc)
	if err != nil {
		return rtr.logErr("override produced a failure", err, nil)
	}

	if dest == nil {
		return nil
	}

	raw, err := rtr.codec.Encode(value)
	if err != nil {
		err = fmt.Errorf("%w: encoding override value %T: %s", switchboard.ErrOverride, value, err)
		return rtr.logErr("encoding override value failed", err, nil)
	}

	if err := rtr.codec.Decode(raw, dest); err != nil {
		err = fmt.Errorf("%w: override value %T does not decode into %T: %s", switchboard.ErrOverride, value, dest, err)
		return rtr.logErr("decoding override value failed", err, nil)
	}

	return nil
}

// logErr reports err through the injected logger before handing it back.
// Logging never alters or masks the error.
func (rtr *Router[R]) logErr(msg string, err error, r *route.Route) error {
	rtr.log.Error(msg, &logger.LogContext{Error: err, Route: r})
	return err
}
