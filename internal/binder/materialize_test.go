package binder

import (
	"testing"

	"github.com/scigolib/binalyzer/internal/core"
	"github.com/scigolib/binalyzer/internal/structures"
	"github.com/scigolib/binalyzer/internal/testutil"
	"github.com/stretchr/testify/require"
)

func bindAndAttach(t *testing.T, xml string, stream core.DataStream) *core.Template {
	t.Helper()
	doc := parse(t, xml)
	root, err := Bind(doc)
	require.NoError(t, err)

	st := structures.NewSymbolTable(root)
	root.SetBindingContext(&core.BindingContext{Root: root, Stream: stream, Resolver: st})
	return root
}

func TestMaterialize_LiteralCount(t *testing.T) {
	root := bindAndAttach(t, `<template name="root">
		<field name="item" size="4" count="3"/>
	</template>`, testutil.NewMockStream(make([]byte, 16)))

	require.NoError(t, Materialize(root))
	require.Len(t, root.Children, 3)
	require.Equal(t, "item0", root.Children[0].Name)
	require.Equal(t, "item1", root.Children[1].Name)
	require.Equal(t, "item2", root.Children[2].Name)

	off1, err := root.Children[1].RelativeOffset()
	require.NoError(t, err)
	require.Equal(t, uint64(4), off1)
}

func TestMaterialize_CountOfOneIsNoOp(t *testing.T) {
	root := bindAndAttach(t, `<template name="root">
		<field name="item" size="4"/>
	</template>`, testutil.NewMockStream(make([]byte, 16)))

	require.NoError(t, Materialize(root))
	require.Len(t, root.Children, 1)
	require.Equal(t, "item", root.Children[0].Name)
}

func TestMaterialize_ReferenceCount(t *testing.T) {
	root := bindAndAttach(t, `<template name="root">
		<field name="n" size="1"/>
		<field name="item" size="2" count="{n}"/>
	</template>`, testutil.NewMockStream([]byte{3, 0, 0, 0, 0, 0, 0}))

	require.NoError(t, Materialize(root))
	// "n" stays put, "item" expands to 3 clones.
	require.Len(t, root.Children, 4)
	require.Equal(t, "item0", root.Children[1].Name)
	require.Equal(t, "item2", root.Children[3].Name)
}

