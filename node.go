package nodeskema

// Node is an immutable schema descriptor. Every node exposes the same fixed
// operation set; constructors embed Base and override what they need. Nodes
// hold no per-model state and may be shared across models.
type Node interface {
	// Default returns a fresh value that validates without issues.
	Default() any
	// Validate returns a structurally valid value. In loose mode it may repair
	// the input; otherwise it records issues and returns value unchanged.
	// It never panics on bad input.
	Validate(path ModelPath, value any, errs *Errors, opt ValidateOptions) any
	// Navigate returns the node governing path element index+1, or the node
	// itself when the path is exhausted. index is the node's own position
	// (-1 for the root).
	Navigate(path ModelPath, index int) Node
	// Transform maps the model representation to the serialized one.
	Transform(path ModelPath, value any, view any) any
	// Suggest lists completion candidates for the value at path.
	Suggest(path ModelPath, value any) []string
	Optional() bool
	Enabled(path ModelPath) bool
	Force() bool
	Keep() bool
	ValidationOption(path ModelPath) *ValidationOption
}

// Base is the no-op record composite nodes start from.
type Base struct{}

func (Base) Transform(_ ModelPath, value any, _ any) any  { return value }
func (Base) Suggest(ModelPath, any) []string              { return nil }
func (Base) Optional() bool                               { return false }
func (Base) Enabled(ModelPath) bool                       { return true }
func (Base) Force() bool                                  { return false }
func (Base) Keep() bool                                   { return false }
func (Base) ValidationOption(ModelPath) *ValidationOption { return nil }

// NextElement returns the path element a node at position index hands to its
// child, and false when the path is exhausted.
func NextElement(path ModelPath, index int) (Element, bool) {
	i := index + 1
	if i < 0 || i >= path.Len() {
		return Element{}, false
	}
	return path.At(i), true
}
