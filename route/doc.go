// Package route describes database operations as immutable values.
//
// A [Route] names one intended effect against the backing store -
// the table, the method, the filters selecting rows, and any payload -
// without performing it.
// A [Collection] is any type that can produce a Route;
// applications group their Collections into tagged unions,
// recursively, to enumerate every operation available in some scope.
// A [CasePath] addresses one case of such a union
// so callers and overrides can work against a narrower sub-hierarchy.
package route
