package router

import (
	"context"

	"github.com/xy-planning-network/switchboard/route"
)

// An Override decides whether a registered rule answers
// the route collection value being called.
//
// Matching may resolve the candidate's route and is therefore failable;
// a resolution failure during matching propagates to the caller
// before any execution side effect.
type Override[R route.Collection] func(ctx context.Context, rc R) (bool, error)

// MatchCase matches any value of the case addressed by path,
// ignoring the case's payload.
func MatchCase[R route.Collection, V any](path route.CasePath[R, V]) Override[R] {
	return func(_ context.Context, rc R) (bool, error) {
		_, ok := path.Extract(rc)
		return ok, nil
	}
}

// MatchRouteID matches any value resolving to a route marked with id.
// A non-empty table narrows the match to routes on that table.
func MatchRouteID[R route.Collection](id, table string) Override[R] {
	return func(ctx context.Context, rc R) (bool, error) {
		r, err := rc.Resolve(ctx)
		if err != nil {
			return false, err
		}

		return r.ID == id && (table == "" || r.Table == table), nil
	}
}

// MatchMethod matches any value resolving to a route performing method.
// A non-empty table narrows the match to routes on that table.
func MatchMethod[R route.Collection](method route.Method, table string) Override[R] {
	return func(ctx context.Context, rc R) (bool, error) {
		r, err := rc.Resolve(ctx)
		if err != nil {
			return false, err
		}

		return r.Method == method && (table == "" || r.Table == table), nil
	}
}

// MatchRoute matches any value resolving to a route equal to want.
//
// Equality follows [route.Route.Equal]: payload content never
// affects whether the override matches.
func MatchRoute[R route.Collection](want route.Route) Override[R] {
	return func(ctx context.Context, rc R) (bool, error) {
		r, err := rc.Resolve(ctx)
		if err != nil {
			return false, err
		}

		return want.Equal(r), nil
	}
}

// MatchFunc matches with an arbitrary predicate.
func MatchFunc[R route.Collection](fn func(ctx context.Context, rc R) (bool, error)) Override[R] {
	return Override[R](fn)
}
