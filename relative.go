package nodeskema

import "strings"

// RelStep is one step of a RelativePath: either a pop or a push of a key.
type RelStep struct {
	pop bool
	key string
}

// Up moves to the parent.
func Up() RelStep { return RelStep{pop: true} }

// Down moves into the child key.
func Down(key string) RelStep { return RelStep{key: key} }

// RelativePath is a declarative route from a node's own path to another
// field, for example Rel(Up(), Down("Name")) for "the Name field one level up".
type RelativePath []RelStep

// Rel builds a RelativePath from steps.
func Rel(steps ...RelStep) RelativePath { return append(RelativePath(nil), steps...) }

// Resolve applies the steps to base in order.
func (r RelativePath) Resolve(base ModelPath) ModelPath {
	out := base
	for _, s := range r {
		if s.pop {
			out = out.Pop()
		} else {
			out = out.Push(s.key)
		}
	}
	return out
}

// Sibling returns the key when the route is a single push, i.e. it names a
// direct child of the base path.
func (r RelativePath) Sibling() (string, bool) {
	if len(r) == 1 && !r[0].pop {
		return r[0].key, true
	}
	return "", false
}

func (r RelativePath) String() string {
	parts := make([]string, len(r))
	for i, s := range r {
		if s.pop {
			parts[i] = ".."
		} else {
			parts[i] = s.key
		}
	}
	return strings.Join(parts, "/")
}
