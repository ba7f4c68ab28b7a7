// Package postgrest executes resolved routes against a
// PostgREST-style relational-database-over-HTTP service.
//
// [Client] implements the router's Executor contract:
// it translates a route value into one HTTP request -
// query-string filters, Prefer headers, /rpc/ paths for
// custom routes - and returns the raw response body.
// Transient failures retry with bounded exponential backoff;
// everything else surfaces immediately as a transport error.
package postgrest
