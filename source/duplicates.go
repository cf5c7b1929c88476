package source

import (
	"bytes"
	"errors"
	"io"

	j "github.com/goccy/go-json"

	ns "github.com/reoring/nodeskema"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	key          string
	index        int
}

// DuplicateKeys scans a JSON document and returns the paths of object keys
// that occur more than once in the same object. Decoding keeps only the
// last occurrence, so callers may want to warn about these.
func DuplicateKeys(data []byte) ([]ns.Path, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var (
		out   []ns.Path
		stack []frame
	)
	// path of the value about to be read
	current := func() ns.Path {
		p := ns.NewPath()
		for i := range stack {
			f := stack[i]
			if f.kind == kindArray {
				p = p.PushIndex(f.index)
			} else if !f.expectingKey {
				p = p.Push(f.key)
			}
		}
		return p
	}
	// valueDone advances the parent after a complete value
	valueDone := func() {
		if n := len(stack); n > 0 {
			top := &stack[n-1]
			if top.kind == kindObject {
				top.expectingKey = true
			} else {
				top.index++
			}
		}
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		switch v := tok.(type) {
		case j.Delim:
			switch v {
			case '{':
				stack = append(stack, frame{kind: kindObject, keys: map[string]struct{}{}, expectingKey: true})
			case '[':
				stack = append(stack, frame{kind: kindArray})
			case '}', ']':
				if n := len(stack); n > 0 {
					stack = stack[:n-1]
				}
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].kind == kindObject && stack[n-1].expectingKey {
				top := &stack[n-1]
				top.key = v
				top.expectingKey = false
				if _, seen := top.keys[v]; seen {
					out = append(out, current())
				}
				top.keys[v] = struct{}{}
				continue
			}
			valueDone()
		default:
			valueDone()
		}
	}
}
