package binder

import (
	"github.com/scigolib/binalyzer/internal/core"
	"github.com/scigolib/binalyzer/internal/utils"
)

// SeedText writes every node's literal `text` content into the bound
// stream at its resolved absolute address. This lets a template author
// declare fixed byte content (magic numbers, reserved padding) directly
// in the template and have a freshly backed stream come out populated,
// rather than requiring a pre-existing stream to already hold those
// bytes. Nodes with no text attribute or element content are untouched.
func SeedText(t *core.Template) error {
	if t.Text != nil {
		if err := t.SetValue(t.Text); err != nil {
			return utils.WrapError("seed text of "+t.Name, err)
		}
	}
	for _, c := range t.Children {
		if err := SeedText(c); err != nil {
			return err
		}
	}
	return nil
}
