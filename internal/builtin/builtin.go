// Package builtin provides the process-wide builtin type and function
// registry referenced by datatype.DataType's Builtin index and by
// @builtin-call expressions (spec.md §4.3.2). Grounded on the teacher's
// internal/registry/registry.go: a mutex-guarded map with a canonical-name
// index and an alias table, offering the same register/lookup shape for a
// closed, language-agnostic set of entries instead of language providers.
package builtin

import (
	"fmt"
	"sync"

	"github.com/thelilylang/lily-sub004/internal/datatype"
)

// Entry describes one builtin: its canonical name, its concrete type (for
// builtin types such as `@builtin(Vec)`), and optionally a function
// signature (for builtin functions such as `@sys(write)`).
type Entry struct {
	Name     string
	Type     *datatype.DataType
	Function *FunctionSignature
}

type FunctionSignature struct {
	Params []*datatype.DataType
	Return *datatype.DataType
}

// Registry is a thread-safe, process-wide builtin table. A single
// instance is normally shared across every file in a compilation, hence
// the mutex: concurrent frontends (spec.md §1's "multi-frontend" note)
// may populate or query it from separate goroutines.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int
	aliases map[string]string
}

// NewRegistry returns an empty registry with no built-in entries
// pre-registered; the target platform's builtin set is wired in by the
// driver during startup, mirroring the teacher's "core has zero knowledge
// of specifics, providers register themselves" design.
func NewRegistry() *Registry {
	return &Registry{
		index:   make(map[string]int),
		aliases: make(map[string]string),
	}
}

// Register adds e under its canonical name, failing on a duplicate.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("builtin: entry must have a non-empty name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[e.Name]; exists {
		return fmt.Errorf("builtin: %q already registered", e.Name)
	}
	r.index[e.Name] = len(r.entries)
	r.entries = append(r.entries, e)
	return nil
}

// Alias registers alias as another name for the entry already registered
// under canonical.
func (r *Registry) Alias(alias, canonical string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[canonical]; !exists {
		return fmt.Errorf("builtin: cannot alias to unregistered entry %q", canonical)
	}
	r.aliases[alias] = canonical
	return nil
}

// Lookup resolves name (canonical or aliased) to its Entry and the index
// a datatype.DataType.Builtin/TypeInfo field should store.
func (r *Registry) Lookup(name string) (Entry, int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if canon, ok := r.aliases[name]; ok {
		name = canon
	}
	i, ok := r.index[name]
	if !ok {
		return Entry{}, 0, false
	}
	return r.entries[i], i, true
}

// ByIndex returns the entry stored at idx, as referenced by
// datatype.DataType.Builtin.
func (r *Registry) ByIndex(idx int) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx < 0 || idx >= len(r.entries) {
		return Entry{}, false
	}
	return r.entries[idx], true
}

// Default is the process-wide instance used when a caller has no
// dependency-injected registry of its own, matching the teacher's
// internal/registry default-instance convention.
var Default = NewRegistry()
