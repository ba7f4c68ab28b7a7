package route

import (
	"fmt"
	"strings"
)

// An Operator compares a column against a filter value.
//
// The set mirrors the operators the backing store's query string accepts.
type Operator string

const (
	OpEq    Operator = "eq"
	OpNeq   Operator = "neq"
	OpGt    Operator = "gt"
	OpGte   Operator = "gte"
	OpLt    Operator = "lt"
	OpLte   Operator = "lte"
	OpLike  Operator = "like"
	OpILike Operator = "ilike"
	OpIn    Operator = "in"
	OpIs    Operator = "is"
	OpCs    Operator = "cs"
	OpCd    Operator = "cd"
	OpFts   Operator = "fts"
	OpNot   Operator = "not"
)

// A Filter selects rows whose column relates to a value through an operator.
//
// Value is the wire representation of the comparison operand.
// Keeping it a string makes Filters comparable,
// which route identity depends on.
type Filter struct {
	Column string
	Op     Operator
	Value  string
}

// String formats the Filter as it appears in a query string.
func (f Filter) String() string {
	return fmt.Sprintf("%s=%s.%s", f.Column, f.Op, f.Value)
}

func Eq(column string, value any) Filter  { return Filter{column, OpEq, stringify(value)} }
func Neq(column string, value any) Filter { return Filter{column, OpNeq, stringify(value)} }
func Gt(column string, value any) Filter  { return Filter{column, OpGt, stringify(value)} }
func Gte(column string, value any) Filter { return Filter{column, OpGte, stringify(value)} }
func Lt(column string, value any) Filter  { return Filter{column, OpLt, stringify(value)} }
func Lte(column string, value any) Filter { return Filter{column, OpLte, stringify(value)} }

// Like matches column against a case-sensitive pattern, e.g. "Plan%".
func Like(column, pattern string) Filter { return Filter{column, OpLike, pattern} }

// ILike matches column against a case-insensitive pattern.
func ILike(column, pattern string) Filter { return Filter{column, OpILike, pattern} }

// In matches rows whose column equals any of values.
func In(column string, values ...any) Filter {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = stringify(v)
	}

	return Filter{column, OpIn, "(" + strings.Join(strs, ",") + ")"}
}

// Is matches column against exact equality of null, true or false.
func Is(column string, value any) Filter { return Filter{column, OpIs, stringify(value)} }

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}
