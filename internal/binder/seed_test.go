package binder

import (
	"testing"

	"github.com/scigolib/binalyzer/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestSeedText_WritesLiteralBytesAtAddress(t *testing.T) {
	stream := testutil.NewMockStream(make([]byte, 8))
	root := bindAndAttach(t, `<template name="root">
		<field name="magic" text="CA FE"/>
		<field name="body" size="2"/>
	</template>`, stream)

	require.NoError(t, SeedText(root))
	require.Equal(t, []byte{0xCA, 0xFE}, stream.Bytes()[0:2])
}

func TestSeedText_LeavesNodesWithoutTextUntouched(t *testing.T) {
	stream := testutil.NewMockStream([]byte{0x11, 0x22})
	root := bindAndAttach(t, `<template name="root">
		<field name="body" size="2"/>
	</template>`, stream)

	require.NoError(t, SeedText(root))
	require.Equal(t, []byte{0x11, 0x22}, stream.Bytes())
}
