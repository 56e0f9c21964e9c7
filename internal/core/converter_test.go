package core

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntegerConverter_RoundTrip(t *testing.T) {
	c := IntegerConverter{}

	data, err := c.EncodeUint(624485, 4, binary.BigEndian)
	require.NoError(t, err)

	got, err := c.DecodeUint(data, binary.BigEndian)
	require.NoError(t, err)
	require.Equal(t, uint64(624485), got)
}

func TestIntegerConverter_RejectsBadWidth(t *testing.T) {
	c := IntegerConverter{}
	_, err := c.EncodeUint(1, 0, binary.LittleEndian)
	require.Error(t, err)
	_, err = c.DecodeUint(nil, binary.LittleEndian)
	require.Error(t, err)
}

func TestIdentityConverter_RejectsIntegerUse(t *testing.T) {
	c := IdentityConverter{}
	_, err := c.DecodeUint([]byte{1, 2}, binary.LittleEndian)
	require.Error(t, err)
	_, err = c.EncodeUint(1, 2, binary.LittleEndian)
	require.Error(t, err)
}

func TestLEB128UnsignedConverter_Decode(t *testing.T) {
	// From spec.md §8: E5 8E 26 decodes to 624485.
	got, err := LEB128UnsignedConverter{}.DecodeUint([]byte{0xE5, 0x8E, 0x26}, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(624485), got)
}

func TestLEB128UnsignedConverter_RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 624485, 1 << 40}
	c := LEB128UnsignedConverter{}
	for _, v := range values {
		encoded, err := c.EncodeUint(v, 0, nil)
		require.NoError(t, err)
		decoded, err := c.DecodeUint(encoded, nil)
		require.NoError(t, err)
		require.Equal(t, v, decoded)
	}
}

func TestLEB128UnsignedConverter_TruncatedSequence(t *testing.T) {
	_, err := LEB128UnsignedConverter{}.DecodeUint([]byte{0xE5, 0x8E}, nil)
	require.Error(t, err)
}

func TestConverterByName(t *testing.T) {
	c, ok := ConverterByName("leb128u")
	require.True(t, ok)
	require.IsType(t, LEB128UnsignedConverter{}, c)

	_, ok = ConverterByName("little")
	require.False(t, ok)
}
