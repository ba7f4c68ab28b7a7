package route

import (
	"fmt"
	"slices"

	"github.com/xy-planning-network/switchboard"
)

// An Order sorts the rows a fetch-like Route reads.
//
// ForeignTable qualifies Column when ordering by an embedded resource.
type Order struct {
	Column       string
	Ascending    bool
	NullsFirst   bool
	ForeignTable string
}

// A Route is an immutable description of one database operation.
//
// Construct Routes with [Fetch], [Insert] and friends;
// mutating a Route after construction is not supported.
type Route struct {
	// Table identifies the target table,
	// or the remote procedure name for MethodCustom.
	Table string

	// Method is the kind of operation performed.
	Method Method

	// Filters select the rows the operation applies to.
	// Their order is irrelevant to route identity in spirit
	// but preserved for deterministic wire construction,
	// so identity compares them element-wise.
	Filters []Filter

	// Order sorts fetched rows; only valid on fetch-like methods.
	Order *Order

	// Payload carries the value(s) an insert, update or upsert writes.
	//
	// Payload never participates in route identity:
	// whether an override matches a Route must not depend on payload content.
	Payload any

	// Returning is the policy for what a mutation sends back.
	Returning Returning

	// ID is an opaque marker set by the route author
	// so overrides can address this route independent of its other fields.
	ID string
}

// A RouteOptFn is a functional option configuring a Route when constructing a new one.
type RouteOptFn func(*Route)

// FilteredBy applies filters to the Route.
func FilteredBy(filters ...Filter) RouteOptFn {
	return func(r *Route) { r.Filters = filters }
}

// OrderedBy applies an ordering clause to the Route.
func OrderedBy(order Order) RouteOptFn {
	return func(r *Route) { r.Order = &order }
}

// Returns sets the Route's returning policy.
func Returns(policy Returning) RouteOptFn {
	return func(r *Route) { r.Returning = policy }
}

// WithID marks the Route with an opaque identifier for override addressing.
func WithID(id string) RouteOptFn {
	return func(r *Route) { r.ID = id }
}

// WithPayload sets the Route's payload.
func WithPayload(payload any) RouteOptFn {
	return func(r *Route) { r.Payload = payload }
}

// Fetch describes reading all rows of table matching the applied filters.
func Fetch(table string, opts ...RouteOptFn) Route {
	return build(table, MethodFetch, nil, ReturnRepresentation, opts)
}

// FetchOne describes reading exactly one row of table.
func FetchOne(table string, opts ...RouteOptFn) Route {
	return build(table, MethodFetchOne, nil, ReturnRepresentation, opts)
}

// Insert describes writing one new row into table.
func Insert(table string, payload any, opts ...RouteOptFn) Route {
	return build(table, MethodInsert, payload, ReturnRepresentation, opts)
}

// InsertMany describes writing a batch of new rows into table.
func InsertMany(table string, payload any, opts ...RouteOptFn) Route {
	return build(table, MethodInsertMany, payload, ReturnRepresentation, opts)
}

// Update describes replacing columns on rows of table matching the applied filters.
func Update(table string, payload any, opts ...RouteOptFn) Route {
	return build(table, MethodUpdate, payload, ReturnRepresentation, opts)
}

// Upsert describes writing rows into table, replacing rows already present.
func Upsert(table string, payload any, opts ...RouteOptFn) Route {
	return build(table, MethodUpsert, payload, ReturnRepresentation, opts)
}

// Delete describes removing the rows of table matching the applied filters.
func Delete(table string, opts ...RouteOptFn) Route {
	return build(table, MethodDelete, nil, ReturnMinimal, opts)
}

// Custom describes calling the remote procedure fn.
//
// Callers should pair Custom with [WithID] when two custom routes
// are otherwise indistinguishable.
func Custom(fn string, opts ...RouteOptFn) Route {
	return build(fn, MethodCustom, nil, ReturnRepresentation, opts)
}

func build(table string, method Method, payload any, policy Returning, opts []RouteOptFn) Route {
	r := Route{
		Table:     table,
		Method:    method,
		Payload:   payload,
		Returning: policy,
	}
	for _, opt := range opts {
		opt(&r)
	}

	return r
}

// Equal asserts whether two Routes describe the same operation.
//
// Identity spans table, method, filters, order and ID.
// Payload content never affects identity.
func (r Route) Equal(other Route) bool {
	if r.Table != other.Table || r.Method != other.Method || r.ID != other.ID {
		return false
	}

	if !slices.Equal(r.Filters, other.Filters) {
		return false
	}

	if (r.Order == nil) != (other.Order == nil) {
		return false
	}

	if r.Order != nil && *r.Order != *other.Order {
		return false
	}

	return true
}

// Validate asserts the Route is internally coherent.
func (r Route) Validate() error {
	if r.Table == "" {
		return fmt.Errorf("%w: route requires a table", switchboard.ErrNotValid)
	}

	if err := r.Method.Valid(); err != nil {
		return err
	}

	if r.Order != nil && !r.Method.IsFetch() {
		return fmt.Errorf("%w: order only applies to fetch methods, not %s", switchboard.ErrNotValid, r.Method)
	}

	if r.Payload != nil && (r.Method == MethodDelete || r.Method.IsFetch()) {
		return fmt.Errorf("%w: %s routes carry no payload", switchboard.ErrNotValid, r.Method)
	}

	switch r.Method {
	case MethodInsert, MethodInsertMany, MethodUpdate, MethodUpsert:
		if r.Payload == nil {
			return fmt.Errorf("%w: %s routes require a payload", switchboard.ErrNotValid, r.Method)
		}
	}

	return nil
}
