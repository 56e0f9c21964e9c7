package binder

import (
	"fmt"

	"github.com/scigolib/binalyzer/internal/core"
	"github.com/scigolib/binalyzer/internal/utils"
)

// errSignatureMismatch wraps utils.ErrSignatureMismatch with the
// offending node's name, so callers can still errors.Is against the
// sentinel.
func errSignatureMismatch(name string) error {
	return fmt.Errorf("node %q: %w", name, utils.ErrSignatureMismatch)
}

// ApplySignatures checks every child's signature against the bound
// stream, one child at a time, in document order (spec.md §4.4/§4.5's
// "at the moment the node is attached" check). Each child is
// provisionally attached (appended to t.Children) before its own
// signature is checked, so its derived relative offset is computed
// against only the siblings already kept, as if a dropped optional
// sibling had never been attached at all, and popped again immediately
// if its signature mismatches and it is optional. Checking the whole
// original slice up front and filtering afterward would let every
// child's offset see siblings that are later pruned.
func ApplySignatures(t *core.Template) error {
	original := t.Children
	kept := make([]*core.Template, 0, len(original))
	for _, c := range original {
		c.Parent = t
		kept = append(kept, c)
		t.Children = kept

		ok, err := c.MatchesSignature()
		if err != nil {
			return utils.WrapError(fmt.Sprintf("signature check on %q", c.Name), err)
		}
		if !ok {
			if c.Optional {
				kept = kept[:len(kept)-1]
				t.Children = kept
				continue
			}
			return errSignatureMismatch(c.Name)
		}
	}

	for _, c := range t.Children {
		if err := ApplySignatures(c); err != nil {
			return err
		}
	}
	return nil
}
