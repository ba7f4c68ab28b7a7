package router

import (
	"context"

	"github.com/xy-planning-network/switchboard/route"
)

// A Proxy is a read-only view into a Router,
// pre-bound to one case of the root route collection
// so callers can work in terms of the narrower sub-hierarchy.
//
// A Proxy holds no override state of its own.
// Every call embeds the sub-value into the full collection
// and delegates to the root Router,
// so overrides registered there resolve identically
// whether a call arrives directly or through any chain of Proxies.
type Proxy[Root route.Collection, Sub any] struct {
	rtr   *Router[Root]
	embed func(Sub) Root
}

// Scoped constructs a *Proxy over rtr bound to the case path addresses.
func Scoped[Root route.Collection, Sub any](rtr *Router[Root], path route.CasePath[Root, Sub]) *Proxy[Root, Sub] {
	return &Proxy[Root, Sub]{rtr: rtr, embed: path.Embed}
}

// Narrow rebinds p one case deeper, composing its embedding with path.
// Proxies narrow to arbitrary depth; the root Router stays the same.
func Narrow[Leaf any, Root route.Collection, Sub any](p *Proxy[Root, Sub], path route.CasePath[Sub, Leaf]) *Proxy[Root, Leaf] {
	embed := p.embed
	return &Proxy[Root, Leaf]{
		rtr: p.rtr,
		embed: func(leaf Leaf) Root {
			return embed(path.Embed(leaf))
		},
	}
}

// Run resolves sub to its effect without decoding a result,
// exactly as calling the root Router with the embedded value would.
func (p *Proxy[Root, Sub]) Run(ctx context.Context, sub Sub) error {
	return p.rtr.call(ctx, p.embed(sub), nil)
}

// CallScoped resolves sub through p and decodes the result into a T,
// exactly as [Call] would with the embedded value on the root Router.
func CallScoped[T any, Root route.Collection, Sub any](ctx context.Context, p *Proxy[Root, Sub], sub Sub) (T, error) {
	var dest T
	if err := p.rtr.call(ctx, p.embed(sub), &dest); err != nil {
		var zero T
		return zero, err
	}

	return dest, nil
}
