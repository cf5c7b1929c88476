package i18n

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// FallbackLanguage is consulted whenever the current language has no entry.
const FallbackLanguage = "en"

// Catalog holds locale maps per language plus the current language.
type Catalog struct {
	mu       sync.RWMutex
	langs    map[string]map[string]string
	current  string
	fallback string
}

// NewCatalog returns a catalog seeded with the built-in issue messages
// ("en" and "ja") and the current language set to the fallback.
func NewCatalog() *Catalog {
	c := &Catalog{
		langs:    map[string]map[string]string{},
		current:  FallbackLanguage,
		fallback: FallbackLanguage,
	}
	for lang, msgs := range builtin {
		c.Merge(lang, msgs)
	}
	return c
}

// Register replaces the locale map for lang.
func (c *Catalog) Register(lang string, msgs map[string]string) {
	cp := make(map[string]string, len(msgs))
	for k, v := range msgs {
		cp[k] = v
	}
	c.mu.Lock()
	c.langs[lang] = cp
	c.mu.Unlock()
}

// Merge adds msgs to the locale map for lang, overriding existing keys.
func (c *Catalog) Merge(lang string, msgs map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.langs[lang]
	if !ok {
		m = make(map[string]string, len(msgs))
		c.langs[lang] = m
	}
	for k, v := range msgs {
		m[k] = v
	}
}

// Language returns the current language.
func (c *Catalog) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// SetLanguage switches the current language. Unknown languages are accepted;
// lookups then go straight to the fallback.
func (c *Catalog) SetLanguage(lang string) {
	if lang == "" {
		lang = c.fallback
	}
	c.mu.Lock()
	c.current = lang
	c.mu.Unlock()
}

// Fallback returns the fallback language.
func (c *Catalog) Fallback() string { return c.fallback }

// Languages lists the registered languages in sorted order.
func (c *Catalog) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.langs))
	for l := range c.langs {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// SearchOrder returns the current language followed by the fallback (once).
func (c *Catalog) SearchOrder() []string {
	cur := c.Language()
	if cur == c.fallback {
		return []string{cur}
	}
	return []string{cur, c.fallback}
}

// Messages returns a copy of the locale map for lang; missing languages
// yield an empty map.
func (c *Catalog) Messages(lang string) map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.langs[lang]))
	for k, v := range c.langs[lang] {
		out[k] = v
	}
	return out
}

// Lookup finds key in lang only.
func (c *Catalog) Lookup(lang, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.langs[lang][key]
	return v, ok
}

// Has reports whether key resolves in the current or fallback language.
func (c *Catalog) Has(key string) bool {
	for _, lang := range c.SearchOrder() {
		if _, ok := c.Lookup(lang, key); ok {
			return true
		}
	}
	return false
}

// T resolves key in the current language, then the fallback language, and
// finally returns the key itself. Params replace %0%, %1%, ... in order.
func (c *Catalog) T(key string, params ...string) string {
	for _, lang := range c.SearchOrder() {
		if msg, ok := c.Lookup(lang, key); ok {
			return Substitute(msg, params)
		}
	}
	return key
}

// Substitute replaces positional %N% placeholders with params[N].
// Placeholders without a matching param are left as is.
func Substitute(msg string, params []string) string {
	if len(params) == 0 || !strings.Contains(msg, "%") {
		return msg
	}
	b := &strings.Builder{}
	for i := 0; i < len(msg); i++ {
		if msg[i] != '%' {
			b.WriteByte(msg[i])
			continue
		}
		j := i + 1
		for j < len(msg) && msg[j] >= '0' && msg[j] <= '9' {
			j++
		}
		if j > i+1 && j < len(msg) && msg[j] == '%' {
			n, _ := strconv.Atoi(msg[i+1 : j])
			if n < len(params) {
				b.WriteString(params[n])
				i = j
				continue
			}
		}
		b.WriteByte('%')
	}
	return b.String()
}

var (
	defaultMu      sync.RWMutex
	defaultCatalog = NewCatalog()
)

// Default returns the package-level catalog.
func Default() *Catalog {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultCatalog
}

// SetDefault replaces the package-level catalog; nil restores a fresh one.
func SetDefault(c *Catalog) {
	if c == nil {
		c = NewCatalog()
	}
	defaultMu.Lock()
	defaultCatalog = c
	defaultMu.Unlock()
}

// SetLanguage switches the language of the package-level catalog.
func SetLanguage(lang string) { Default().SetLanguage(lang) }

// T resolves key against the package-level catalog.
func T(key string, params ...string) string { return Default().T(key, params...) }
