package route

import (
	"fmt"

	"github.com/xy-planning-network/switchboard"
)

// A Method is the kind of database operation a Route performs.
type Method string

const (
	MethodDelete     Method = "delete"
	MethodFetch      Method = "fetch"
	MethodFetchOne   Method = "fetchOne"
	MethodInsert     Method = "insert"
	MethodInsertMany Method = "insertMany"
	MethodUpdate     Method = "update"
	MethodUpsert     Method = "upsert"

	// MethodCustom executes a remote procedure instead of a table operation.
	// Routes using it should set an ID so overrides can tell
	// structurally-identical custom routes apart.
	MethodCustom Method = "custom"
)

func (m Method) String() string { return string(m) }

func (m Method) Valid() error {
	switch m {
	case MethodDelete, MethodFetch, MethodFetchOne, MethodInsert,
		MethodInsertMany, MethodUpdate, MethodUpsert, MethodCustom:
		return nil
	default:
		return fmt.Errorf("%w: method %q", switchboard.ErrNotValid, string(m))
	}
}

// IsFetch asserts whether the Method reads rows
// and therefore accepts an ordering clause.
func (m Method) IsFetch() bool {
	return m == MethodFetch || m == MethodFetchOne
}

// IsMutation asserts whether the Method writes rows.
func (m Method) IsMutation() bool {
	switch m {
	case MethodDelete, MethodInsert, MethodInsertMany, MethodUpdate, MethodUpsert:
		return true
	default:
		return false
	}
}

// A Returning is the policy for what the backing store sends back
// after a mutating operation.
type Returning string

const (
	ReturnMinimal        Returning = "minimal"
	ReturnRepresentation Returning = "representation"
)
