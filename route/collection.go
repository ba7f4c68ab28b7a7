package route

import "context"

// A Collection is any type that can produce a Route.
//
// Applications express the operations available in some scope
// as a tagged union of Collections:
// a union per table whose cases build Routes directly,
// then a union over those unions for the whole application.
//
// Resolve transforms the Collection into the concrete Route it describes.
// Resolution must not perform I/O against the backing store.
// It may read ambient request-scoped context,
// such as the current authenticated user via
// [github.com/xy-planning-network/switchboard.CurrentUserFromContext],
// and fail with a domain error when a precondition is missing.
type Collection interface {
	Resolve(ctx context.Context) (Route, error)
}
