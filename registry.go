package nodeskema

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/reoring/nodeskema/i18n"
)

// ErrMissingID is matched (errors.Is) by every *MissingIDError.
var ErrMissingID = errors.New("nodeskema: missing registry id")

// MissingIDError reports a lookup of an id that was never registered.
type MissingIDError struct {
	Registry string
	ID       string
}

func (e *MissingIDError) Error() string {
	return fmt.Sprintf("nodeskema: %s registry has no entry %q", e.Registry, e.ID)
}

func (e *MissingIDError) Is(target error) bool { return target == ErrMissingID }

// Registry is a named lookup table with a safe fallback for missing ids.
type Registry[T any] struct {
	name     string
	mu       sync.RWMutex
	entries  map[string]T
	fallback func() T
	logger   *slog.Logger
}

// NewRegistry creates an empty registry. fallback produces the value Get
// returns for missing ids (nil selects the zero value).
func NewRegistry[T any](name string, fallback func() T, logger *slog.Logger) *Registry[T] {
	if logger == nil {
		logger = DefaultLogger()
	}
	return &Registry[T]{name: name, entries: map[string]T{}, fallback: fallback, logger: logger}
}

// Name returns the registry name used in diagnostics.
func (r *Registry[T]) Name() string { return r.name }

// Register stores v under id, replacing any previous entry.
func (r *Registry[T]) Register(id string, v T) {
	r.mu.Lock()
	r.entries[id] = v
	r.mu.Unlock()
}

// Has reports whether id is registered.
func (r *Registry[T]) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// IDs lists registered ids in sorted order.
func (r *Registry[T]) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the entry for id or a *MissingIDError.
func (r *Registry[T]) Lookup(id string) (T, error) {
	r.mu.RLock()
	v, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return r.empty(), &MissingIDError{Registry: r.name, ID: id}
	}
	return v, nil
}

// Get returns the entry for id. A missing id is logged and answered with the
// registry's fallback value; it never panics.
func (r *Registry[T]) Get(id string) T {
	v, err := r.Lookup(id)
	if err != nil {
		r.logger.Error("registry lookup failed", "registry", r.name, "id", id)
	}
	return v
}

// Clear removes every entry.
func (r *Registry[T]) Clear() {
	r.mu.Lock()
	r.entries = map[string]T{}
	r.mu.Unlock()
}

func (r *Registry[T]) empty() T {
	if r.fallback == nil {
		var zero T
		return zero
	}
	return r.fallback()
}

// Registries bundles the schema, collection and locale tables a model
// resolves against.
type Registries struct {
	Schemas     *Registry[Node]
	Collections *Registry[[]string]
	Locales     *i18n.Catalog
	logger      *slog.Logger
}

// RegistriesOption configures NewRegistries.
type RegistriesOption func(*Registries)

// WithRegistryLogger sets the logger used for lookup diagnostics.
func WithRegistryLogger(l *slog.Logger) RegistriesOption {
	return func(r *Registries) { r.logger = l }
}

// WithCatalog uses an existing locale catalog.
func WithCatalog(c *i18n.Catalog) RegistriesOption {
	return func(r *Registries) { r.Locales = c }
}

// NewRegistries builds the three tables in dependency order: locales,
// collections, schemas.
func NewRegistries(opts ...RegistriesOption) *Registries {
	r := &Registries{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = DefaultLogger()
	}
	if r.Locales == nil {
		r.Locales = i18n.NewCatalog()
	}
	r.Collections = NewRegistry[[]string]("collection", func() []string { return []string{} }, r.logger)
	r.Schemas = NewRegistry[Node]("schema", nil, r.logger)
	return r
}

// Logger returns the diagnostic logger.
func (r *Registries) Logger() *slog.Logger { return r.logger }

// LoadCollectionsYAML registers every top-level key of a YAML mapping of
// string lists as a collection.
func (r *Registries) LoadCollectionsYAML(rd io.Reader) error {
	var doc map[string][]string
	if err := yaml.NewDecoder(rd).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("nodeskema: decode collections: %w", err)
	}
	for id, values := range doc {
		r.Collections.Register(id, append([]string(nil), values...))
	}
	return nil
}

var (
	defaultRegMu sync.Mutex
	defaultReg   *Registries
)

// Init creates the process-wide registries on first use and returns them.
// Later calls return the same instance and ignore opts.
func Init(opts ...RegistriesOption) *Registries {
	defaultRegMu.Lock()
	defer defaultRegMu.Unlock()
	if defaultReg == nil {
		defaultReg = NewRegistries(opts...)
	}
	return defaultReg
}

// Default returns the process-wide registries, initializing them if needed.
func Default() *Registries { return Init() }

// Teardown drops the process-wide registries; the next Init starts fresh.
func Teardown() {
	defaultRegMu.Lock()
	defaultReg = nil
	defaultRegMu.Unlock()
}

var (
	loggerMu      sync.RWMutex
	defaultLogger = slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Prefix:          "nodeskema",
		ReportTimestamp: false,
	}))
)

// DefaultLogger returns the package logger (charmbracelet/log on stderr
// unless replaced with SetDefaultLogger).
func DefaultLogger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger replaces the package logger; nil is ignored.
func SetDefaultLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	loggerMu.Lock()
	defaultLogger = l
	loggerMu.Unlock()
}
