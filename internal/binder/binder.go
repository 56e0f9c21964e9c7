// Package binder turns a generic XML parse tree (github.com/antchfx/xmlquery)
// into a core.Template tree, following the attribute grammar described
// in spec.md §3/§6 and supplemented from
// original_source/binalyzer_template_provider/xml.py.
package binder

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"golang.org/x/text/unicode/norm"

	"github.com/scigolib/binalyzer/internal/core"
	"github.com/scigolib/binalyzer/internal/structures"
	"github.com/scigolib/binalyzer/internal/utils"
)

// attrOrder fixes the order attributes are considered in, matching
// original_source/binalyzer_template_provider/xml.py's
// _parse_template_attributes: sizing first (it selects the default size
// derivation), then name, addressing-mode, offset, size, count,
// boundary, the two padding attributes, byteorder, signature, hint, and
// text last.
var attrOrder = []string{
	"sizing", "name", "addressing-mode", "offset", "size", "count",
	"boundary", "padding-before", "padding-after", "byteorder",
	"signature", "hint", "text",
}

// Bind parses the root element of doc into a core.Template tree. The
// returned tree is unmaterialized: explicit `count` attributes and
// `signature`/`hint` pruning are only resolvable once the tree is bound
// to a data stream, so callers run Materialize and ApplySignatures
// after binding (see the root package's orchestrator).
func Bind(doc *xmlquery.Node) (*core.Template, error) {
	root := firstElement(doc)
	if root == nil {
		return nil, utils.Schemaf("no root element found in document")
	}
	return bindElement(root, nil)
}

func firstElement(n *xmlquery.Node) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	if n.Type == xmlquery.ElementNode {
		return n
	}
	return nil
}

func bindElement(el *xmlquery.Node, parent *core.Template) (*core.Template, error) {
	attrs := attrMap(el)

	t := &core.Template{Parent: parent}

	for _, key := range attrOrder {
		raw, ok := attrs[key]
		if !ok {
			continue
		}
		if err := applyAttr(t, key, raw); err != nil {
			return nil, utils.WrapError(fmt.Sprintf("element %q", el.Data), err)
		}
	}

	if t.Optional && len(t.Signature) == 0 {
		return nil, utils.WrapError(fmt.Sprintf("element %q", el.Data),
			utils.Schemaf("hint=\"optional\" requires a signature attribute"))
	}

	if t.Text == nil {
		if text := strings.TrimSpace(directText(el)); text != "" {
			b, err := ParseHexText(text)
			if err != nil {
				return nil, err
			}
			t.Text = b
		}
	}
	if t.Text != nil && t.SizeProperty == nil {
		t.SizeProperty = core.NewLiteralProperty(uint64(len(t.Text)))
	}

	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		child, err := bindElement(c, t)
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, child)
	}

	if err := structures.CheckSiblingUniqueness(t.Children); err != nil {
		return nil, utils.WrapError(fmt.Sprintf("element %q", el.Data), err)
	}

	return t, nil
}

func applyAttr(t *core.Template, key, raw string) error {
	switch key {
	case "name":
		if strings.HasPrefix(strings.TrimSpace(raw), "{") {
			return utils.Schemaf("name %q: a reference is not allowed on the name attribute", raw)
		}
		// Normalize to NFC so two templates spelling the same name
		// with different Unicode decompositions still compare equal
		// for sibling-uniqueness checks and reference lookups.
		t.Name = norm.NFC.String(raw)
	case "addressing-mode":
		switch raw {
		case "relative":
			t.Addressing = core.AddressingRelative
		case "absolute":
			t.Addressing = core.AddressingAbsolute
		default:
			return utils.Schemaf("unknown addressing-mode %q", raw)
		}
	case "sizing":
		switch raw {
		case "auto":
			t.Sizing = core.SizingAuto
		case "fix":
			t.Sizing = core.SizingFix
		case "stretch":
			t.Sizing = core.SizingStretch
		default:
			return utils.Schemaf("unknown sizing %q", raw)
		}
	case "offset":
		prop, err := ParseAttributeValue(raw)
		if err != nil {
			return err
		}
		t.OffsetProperty = prop
	case "size":
		prop, err := ParseAttributeValue(raw)
		if err != nil {
			return err
		}
		t.SizeProperty = prop
	case "count":
		prop, err := ParseAttributeValue(raw)
		if err != nil {
			return err
		}
		t.CountProperty = prop
	case "boundary":
		prop, err := ParseAttributeValue(raw)
		if err != nil {
			return err
		}
		t.BoundaryProperty = prop
	case "padding-before":
		prop, err := ParseAttributeValue(raw)
		if err != nil {
			return err
		}
		t.PaddingBeforeProperty = prop
	case "padding-after":
		prop, err := ParseAttributeValue(raw)
		if err != nil {
			return err
		}
		t.PaddingAfterProperty = prop
	case "byteorder":
		switch raw {
		case "little":
			t.ByteOrder = binary.LittleEndian
		case "big":
			t.ByteOrder = binary.BigEndian
		default:
			return utils.Schemaf("unknown byteorder %q", raw)
		}
	case "signature":
		sig, err := ParseHexText(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			return err
		}
		t.Signature = sig
	case "hint":
		if raw == "optional" {
			t.Optional = true
		}
	case "text":
		b, err := ParseHexText(raw)
		if err != nil {
			return err
		}
		t.Text = b
	}
	return nil
}

func attrMap(n *xmlquery.Node) map[string]string {
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		m[a.Name.Local] = a.Value
	}
	return m
}

func directText(n *xmlquery.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.TextNode || c.Type == xmlquery.CharDataNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
