// Package scope implements the lexical scope chain of spec.md §3.1: a
// monotonically allocated ScopeID, a parent-linked Scope carrying eight
// separate name->ID namespaces (one per declaration category), and a
// borrow-state map used by the external borrow checker. Grounded on the
// teacher's internal/registry/registry.go mutex-guarded map pattern.
package scope

import (
	"fmt"
	"sync"
)

// ID identifies a scope, monotonically allocated by an Allocator.
type ID uint64

// Namespace selects one of the eight declaration categories spec.md §3.1
// requires scopes to track separately (distinct Enum/EnumVariant/Function/
// Label/Struct/Typedef/Union/Variable namespaces, so that e.g. a struct and
// a function may share a name without colliding).
type Namespace int

const (
	NsEnum Namespace = iota
	NsEnumVariant
	NsFunction
	NsLabel
	NsStruct
	NsTypedef
	NsUnion
	NsVariable
	nsCount
)

// BorrowState is the coarse move/borrow tag the external borrow checker
// attaches to a variable binding; this package only stores it.
type BorrowState int

const (
	BorrowUnknown BorrowState = iota
	BorrowOwned
	BorrowMoved
	BorrowBorrowed
	BorrowMutBorrowed
)

// Allocator hands out monotonically increasing ScopeIDs, shared across a
// whole compilation unit (spec.md §3.1: ScopeID is a flat, global
// identifier space, not per-file).
type Allocator struct {
	mu   sync.Mutex
	next ID
}

func NewAllocator() *Allocator { return &Allocator{} }

func (a *Allocator) Next() ID {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.next
	a.next++
	return id
}

// Scope is one lexical scope: a chain link to its parent, a flag marking
// whether it is a bare block (spec.md §3.1 "is_block", used by the MIR
// builder's block/unsafe lowering), and eight name->declaration-ID maps.
type Scope struct {
	ID      ID
	Parent  *Scope
	IsBlock bool

	names   [nsCount]map[string]uint64
	borrows map[string]BorrowState
}

// New creates a root or child scope. A nil parent marks a file- or
// function-level root scope.
func New(id ID, parent *Scope, isBlock bool) *Scope {
	s := &Scope{ID: id, Parent: parent, IsBlock: isBlock, borrows: make(map[string]BorrowState)}
	for i := range s.names {
		s.names[i] = make(map[string]uint64)
	}
	return s
}

// Insert binds name to declID in namespace ns within this scope only. It
// fails if the name is already bound in this scope (shadowing across
// scopes is allowed; redeclaration within one scope is not).
func (s *Scope) Insert(ns Namespace, name string, declID uint64) error {
	if _, exists := s.names[ns][name]; exists {
		return fmt.Errorf("scope: %q already declared in this scope", name)
	}
	s.names[ns][name] = declID
	return nil
}

// Lookup searches this scope and its ancestors for name in namespace ns,
// returning the nearest binding (spec.md §3.1 standard lexical shadowing).
func (s *Scope) Lookup(ns Namespace, name string) (uint64, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if id, ok := cur.names[ns][name]; ok {
			return id, true
		}
	}
	return 0, false
}

// LookupLocal searches only this scope, without walking to parents.
func (s *Scope) LookupLocal(ns Namespace, name string) (uint64, bool) {
	id, ok := s.names[ns][name]
	return id, ok
}

// SetBorrowState records the borrow tag for a variable name visible in
// this scope; external to this package, the borrow checker drives this.
func (s *Scope) SetBorrowState(name string, state BorrowState) {
	s.borrows[name] = state
}

// BorrowStateOf reports the nearest recorded borrow tag for name, walking
// up the parent chain the same way Lookup does.
func (s *Scope) BorrowStateOf(name string) (BorrowState, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if st, ok := cur.borrows[name]; ok {
			return st, true
		}
	}
	return BorrowUnknown, false
}

// Depth returns the number of ancestors between this scope and the root
// (0 for a root scope).
func (s *Scope) Depth() int {
	n := 0
	for cur := s.Parent; cur != nil; cur = cur.Parent {
		n++
	}
	return n
}

// IsDescendantOf reports whether s is other or nested inside other,
// walking the parent chain.
func (s *Scope) IsDescendantOf(other *Scope) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}
	return false
}
