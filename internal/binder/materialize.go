package binder

import (
	"fmt"

	"github.com/scigolib/binalyzer/internal/core"
	"github.com/scigolib/binalyzer/internal/utils"
)

// Materialize expands every node's `count` attribute into that many
// sibling clones (spec.md §9's Design Notes: materialize at tree-build
// time rather than modeling a virtual sequence). It must run after the
// tree is bound to a stream, since count may itself be a reference.
//
// Each clone resolves its own position independently: a clone's
// relative offset is computed against its own previous sibling in the
// expanded list, not shared with the prototype (this resolves spec.md
// §9's open question on whether materialized instances share or
// independently observe derived properties).
func Materialize(t *core.Template) error {
	var expanded []*core.Template

	for _, c := range t.Children {
		count, err := c.Count()
		if err != nil {
			return utils.WrapError(fmt.Sprintf("materialize %q", c.Name), err)
		}
		if err := utils.ValidateBufferSize(count, utils.MaxCount, "count of "+c.Name); err != nil {
			return err
		}

		if count == 1 {
			c.Parent = t
			expanded = append(expanded, c)
			continue
		}

		for i := uint64(0); i < count; i++ {
			name := c.Name
			if name != "" {
				name = fmt.Sprintf("%s%d", c.Name, i)
			}
			clone := c.Clone(name)
			clone.Parent = t
			clone.CountProperty = nil
			if ctx := t.BindingContext(); ctx != nil {
				clone.SetBindingContext(ctx)
			}
			expanded = append(expanded, clone)
		}
	}

	t.Children = expanded
	for _, c := range t.Children {
		if err := Materialize(c); err != nil {
			return err
		}
	}
	return nil
}
