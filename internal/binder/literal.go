package binder

import (
	"encoding/binary"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/scigolib/binalyzer/internal/core"
	"github.com/scigolib/binalyzer/internal/utils"
)

// ParseIntLiteral parses a plain integer literal as it appears in an
// offset/size/count/boundary/padding attribute: decimal, or 0x/0o/0b
// prefixed (spec.md §3's attribute grammar).
func ParseIntLiteral(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, utils.Schemaf("invalid integer literal %q: %v", s, err)
	}
	return v, nil
}

// ParseAttributeValue parses one offset/size/count/boundary/padding
// attribute value into a Property: either a plain integer literal, or a
// "{...}" reference expression (spec.md §6).
//
// A reference expression's first comma-separated token, if it contains
// no '=', is the referenced node's bare name or dotted path; every
// other token is a key=value pair. Two keys are recognized: byteorder
// (little, the default, or big) and converter (leb128u or leb128size).
// A converter with no name token denotes a derived property with no
// lookup, anchored at the attribute's own node instead of a referent
// (original_source/binalyzer_template_provider/xml.py's
// _parse_attribute_value).
func ParseAttributeValue(raw string) (core.Property, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		v, err := ParseIntLiteral(trimmed)
		if err != nil {
			return nil, err
		}
		return core.NewLiteralProperty(v), nil
	}

	inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "{"), "}")
	tokens := strings.Split(inner, ",")

	var refName string
	byteOrder := binary.ByteOrder(binary.LittleEndian)
	var converterName string

	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		key, value, hasEq := strings.Cut(tok, "=")
		key = strings.TrimSpace(key)
		if !hasEq {
			if i != 0 {
				return nil, utils.Schemaf("reference expression %q: bare name must be the first token", raw)
			}
			refName = norm.NFC.String(key)
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "byteorder":
			switch value {
			case "little":
				byteOrder = binary.LittleEndian
			case "big":
				byteOrder = binary.BigEndian
			default:
				return nil, utils.Schemaf("reference expression %q: unknown byteorder %q", raw, value)
			}
		case "converter":
			converterName = value
		default:
			return nil, utils.Schemaf("reference expression %q: unknown key %q", raw, key)
		}
	}

	if converterName != "" {
		switch converterName {
		case "leb128size":
			return core.NewCustomProviderProperty(refName, core.LEB128BytesProvider{}, false), nil
		case "leb128u":
			if refName == "" {
				return core.NewCustomProviderProperty(refName, core.LEB128BytesProvider{}, true), nil
			}
			conv, _ := core.ConverterByName("leb128u")
			return core.NewReferenceProperty(refName, conv, byteOrder), nil
		default:
			return nil, utils.Schemaf("reference expression %q: unknown converter %q", raw, converterName)
		}
	}

	if refName == "" {
		return nil, utils.Schemaf("reference expression %q: missing name and converter", raw)
	}
	return core.NewReferenceProperty(refName, core.IntegerConverter{}, byteOrder), nil
}

// ParseHexText parses element text content / a `text` or `signature`
// attribute into a byte literal: whitespace-separated groups of hex
// digits (e.g. "CA FE 01" or "0xCAFE01"), each optionally with a
// leading "0x". A group longer than two digits is read as consecutive
// byte pairs and must have an even number of digits.
func ParseHexText(s string) ([]byte, error) {
	fields := strings.Fields(s)
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimPrefix(f, "0x")
		if len(f) > 2 && len(f)%2 != 0 {
			return nil, utils.Schemaf("invalid hex group %q in text content: odd number of digits", f)
		}
		for {
			n := min(len(f), 2)
			b, err := strconv.ParseUint(f[:n], 16, 8)
			if err != nil {
				return nil, utils.Schemaf("invalid hex byte %q in text content: %v", f[:n], err)
			}
			out = append(out, byte(b))
			f = f[n:]
			if f == "" {
				break
			}
		}
	}
	return out, nil
}
