package nodeskema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/nodeskema/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeExpectedString     = "expected_string"
	CodeExpectedNumber     = "expected_number"
	CodeExpectedInteger    = "expected_integer"
	CodeExpectedBoolean    = "expected_boolean"
	CodeExpectedList       = "expected_list"
	CodeExpectedObject     = "expected_object"
	CodeMissingField       = "missing_field"
	CodeInvalidEmptyString = "invalid_empty_string"
	CodeInvalidEnumOption  = "invalid_enum_option"
	CodeInvalidKey         = "invalid_key"
	CodeNumberRangeSmaller = "invalid_number_range.smaller"
	CodeNumberRangeLarger  = "invalid_number_range.larger"
	CodeNumberRangeBetween = "invalid_number_range.between"
	CodeListRangeExact     = "invalid_list_range.exact"
	CodeListRangeBetween   = "invalid_list_range.between"
	CodeListRangeSmaller   = "invalid_list_range.smaller"
	CodeListRangeLarger    = "invalid_list_range.larger"
)

// Issue is a single validation problem recorded during a pass.
type Issue struct {
	Path   Path
	Code   string
	Params []any
}

// Message localizes the issue as "error.<code>" with its params substituted.
func (it Issue) Message(cat *i18n.Catalog) string {
	params := make([]string, len(it.Params))
	for i, p := range it.Params {
		params[i] = fmt.Sprint(p)
	}
	if cat == nil {
		return i18n.T("error."+it.Code, params...)
	}
	return cat.T("error."+it.Code, params...)
}

// Issues is a snapshot of recorded issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. expected_string at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Errors collects issues keyed by path for one validation pass. It is an
// ordered accumulator: no deduplication, cleared and rebuilt on every pass.
type Errors struct {
	issues []Issue
}

// NewErrors returns an empty sink.
func NewErrors() *Errors { return &Errors{} }

// Add records an issue and always returns false, so call sites can write
// `return errs.Add(...)` where a validity flag is expected.
func (e *Errors) Add(path Path, code string, params ...any) bool {
	e.issues = append(e.issues, Issue{Path: path.Copy(), Code: code, Params: params})
	return false
}

// Get returns issues at path (exact) or at path and any descendant.
func (e *Errors) Get(path Path, exact bool) []Issue {
	var out []Issue
	for _, it := range e.issues {
		if exact && it.Path.Equals(path) || !exact && it.Path.Inside(path) {
			out = append(out, it)
		}
	}
	return out
}

// All returns a copy of every recorded issue in insertion order.
func (e *Errors) All() Issues { return append(Issues(nil), e.issues...) }

// Len is the number of recorded issues.
func (e *Errors) Len() int { return len(e.issues) }

// Clear drops all issues.
func (e *Errors) Clear() { e.issues = nil }

// Err returns the issues as an error, or nil when none were recorded.
func (e *Errors) Err() error {
	if len(e.issues) == 0 {
		return nil
	}
	return e.All()
}
