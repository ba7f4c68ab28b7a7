package router

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/xy-planning-network/switchboard"
	"github.com/xy-planning-network/switchboard/route"
)

// An Executor performs a resolved route against the backing store,
// returning the raw encoded response.
//
// Executors fail with transport errors;
// any retry policy is theirs, never the router's.
type Executor interface {
	Execute(ctx context.Context, r route.Route) ([]byte, error)
}

// ExecutorFunc adapts a function into an Executor.
type ExecutorFunc func(ctx context.Context, r route.Route) ([]byte, error)

func (f ExecutorFunc) Execute(ctx context.Context, r route.Route) ([]byte, error) {
	return f(ctx, r)
}

// Unimplemented constructs the Executor a Router falls back on
// when none is configured.
//
// Every execution fails with ErrUnimplemented,
// turning an unmocked call into a hard, attributable failure.
func Unimplemented() Executor {
	return ExecutorFunc(func(_ context.Context, r route.Route) ([]byte, error) {
		return nil, fmt.Errorf("%w: no executor configured for %s %s", switchboard.ErrUnimplemented, r.Method, r.Table)
	})
}

// A Codec translates typed values to and from the raw wire encoding.
//
// The router pushes override payloads through Encode
// so overridden and live results share one decode path.
type Codec interface {
	Encode(value any) ([]byte, error)
	Decode(raw []byte, dest any) error
}

type jsonCodec struct{}

func (jsonCodec) Encode(value any) ([]byte, error) { return json.Marshal(value) }

func (jsonCodec) Decode(raw []byte, dest any) error { return json.Unmarshal(raw, dest) }

// JSONCodec constructs the default Codec, backed by JSON.
func JSONCodec() Codec { return jsonCodec{} }
