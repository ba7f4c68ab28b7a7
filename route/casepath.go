package route

// A CasePath is a bidirectional mapping between one case of a tagged union
// and the payload that case carries.
//
// Embed wraps a payload in its union value.
// Extract unwraps a union value when it is that case, reporting whether it was.
//
// Author one CasePath per case by hand; no reflection is involved.
type CasePath[Root, Value any] struct {
	Embed   func(Value) Root
	Extract func(Root) (Value, bool)
}

// Compose chains two CasePaths through an intermediate union,
// producing a path addressing a case arbitrarily deep in a nested hierarchy.
func Compose[Root, Mid, Leaf any](outer CasePath[Root, Mid], inner CasePath[Mid, Leaf]) CasePath[Root, Leaf] {
	return CasePath[Root, Leaf]{
		Embed: func(leaf Leaf) Root {
			return outer.Embed(inner.Embed(leaf))
		},
		Extract: func(root Root) (Leaf, bool) {
			mid, ok := outer.Extract(root)
			if !ok {
				var zero Leaf
				return zero, false
			}

			return inner.Extract(mid)
		},
	}
}
