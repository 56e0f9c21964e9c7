// Package structures implements the root-scoped symbol table used to
// resolve name and dotted-path references between template nodes
// (spec.md §4.2, §9's Design Notes strategy (a): a root-scoped symbol
// table built at tree construction). The table does not detect
// reference cycles; those are stopped by the resolver's recursion-depth
// guard in internal/core.
package structures

import (
	set3 "github.com/TomTonic/Set3"

	"github.com/scigolib/binalyzer/internal/core"
	"github.com/scigolib/binalyzer/internal/utils"
)

// SymbolTable maps a node's bare Name to the node itself, across the
// whole tree rooted at construction time, and implements
// core.ReferenceResolver so a bound BindingContext can use it directly.
// A dotted reference (e.g. "layout0.area0") bypasses the table and
// walks the tree structurally instead, since dotted paths are already
// unambiguous by construction.
type SymbolTable struct {
	byName    map[string]*core.Template
	ambiguous *set3.Set3[string]
}

// NewSymbolTable builds a symbol table over every named node in the
// subtree rooted at root. A name that occurs on more than one node
// anywhere in the tree is marked ambiguous: a later bare-name lookup
// for it fails with a reference error, but construction itself does not
// fail, since spec.md only requires uniqueness *among siblings*
// (invariant 1): two unrelated subtrees may legitimately reuse a name
// that is simply never looked up by its bare form.
func NewSymbolTable(root *core.Template) *SymbolTable {
	st := &SymbolTable{
		byName:    make(map[string]*core.Template),
		ambiguous: set3.Empty[string](),
	}
	st.index(root)
	return st
}

func (st *SymbolTable) index(t *core.Template) {
	if t.Name != "" {
		if _, exists := st.byName[t.Name]; exists {
			st.ambiguous.Add(t.Name)
		} else {
			st.byName[t.Name] = t
		}
	}
	for _, c := range t.Children {
		st.index(c)
	}
}

// Resolve implements core.ReferenceResolver. A reference containing '.'
// is treated as a dotted path from from's root; a plain reference is
// looked up by bare name across the whole tree.
func (st *SymbolTable) Resolve(from *core.Template, ref string) (*core.Template, error) {
	if containsDot(ref) {
		if n := from.Root().ChildPath(ref); n != nil {
			return n, nil
		}
		return nil, utils.Referencef("path %q not found", ref)
	}

	if st.ambiguous.Contains(ref) {
		return nil, utils.Referencef("name %q is ambiguous: multiple nodes share it", ref)
	}
	n, ok := st.byName[ref]
	if !ok {
		return nil, utils.Referencef("name %q not found", ref)
	}
	return n, nil
}

func containsDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

// CheckSiblingUniqueness enforces spec.md §3 invariant 1: a name must
// be unique among its own siblings. Call it once per completed sibling
// list at binder attach time.
func CheckSiblingUniqueness(siblings []*core.Template) error {
	seen := set3.Empty[string]()
	for _, s := range siblings {
		if s.Name == "" {
			continue
		}
		if seen.Contains(s.Name) {
			return utils.Schemaf("duplicate sibling name %q", s.Name)
		}
		seen.Add(s.Name)
	}
	return nil
}
