package binder

import (
	"encoding/binary"
	"testing"

	"github.com/scigolib/binalyzer/internal/core"
	"github.com/stretchr/testify/require"
)

func TestParseIntLiteral(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "128", want: 128},
		{in: "0x80", want: 0x80},
		{in: "0o200", want: 128},
		{in: "0b10000000", want: 128},
		{in: "not-a-number", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseIntLiteral(tt.in)
		if tt.wantErr {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestParseAttributeValue_Literal(t *testing.T) {
	prop, err := ParseAttributeValue(" 0x100 ")
	require.NoError(t, err)
	lit, ok := prop.(*core.LiteralProperty)
	require.True(t, ok)
	require.Equal(t, uint64(0x100), lit.Value)
}

func TestParseAttributeValue_BareReference(t *testing.T) {
	prop, err := ParseAttributeValue("{field1_size}")
	require.NoError(t, err)
	ref, ok := prop.(*core.ReferenceProperty)
	require.True(t, ok)
	require.Equal(t, "field1_size", ref.RefName)
}

func TestParseAttributeValue_ReferenceWithByteOrder(t *testing.T) {
	prop, err := ParseAttributeValue("{size_field, byteorder=big}")
	require.NoError(t, err)
	ref := prop.(*core.ReferenceProperty)
	require.Equal(t, binary.BigEndian, ref.ByteOrder)
}

func TestParseAttributeValue_ReferenceWithLEB128Converter(t *testing.T) {
	prop, err := ParseAttributeValue("{field1_size, converter=leb128u}")
	require.NoError(t, err)
	ref := prop.(*core.ReferenceProperty)
	require.IsType(t, core.LEB128UnsignedConverter{}, ref.Converter)
}

func TestParseAttributeValue_ConverterOnlyNoLookup(t *testing.T) {
	prop, err := ParseAttributeValue("{converter=leb128size}")
	require.NoError(t, err)
	cp, ok := prop.(*core.CustomProviderProperty)
	require.True(t, ok)
	require.Equal(t, "", cp.RefName)
	require.False(t, cp.Decode)
}

func TestParseAttributeValue_MissingNameAndConverterErrors(t *testing.T) {
	_, err := ParseAttributeValue("{byteorder=big}")
	require.Error(t, err)
}

func TestParseAttributeValue_UnknownKeyErrors(t *testing.T) {
	_, err := ParseAttributeValue("{field, bogus=1}")
	require.Error(t, err)
}

func TestParseHexText(t *testing.T) {
	b, err := ParseHexText("CA FE 0x01")
	require.NoError(t, err)
	require.Equal(t, []byte{0xCA, 0xFE, 0x01}, b)
}

func TestParseHexText_InvalidErrors(t *testing.T) {
	_, err := ParseHexText("ZZ")
	require.Error(t, err)
}
