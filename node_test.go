package binalyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNode_ChildPathAndParent(t *testing.T) {
	b, err := FromString(`<template name="root">
		<template name="layout0">
			<field name="area0" size="4"/>
		</template>
	</template>`, "")
	require.NoError(t, err)
	require.NoError(t, b.SetData(NewByteStream(make([]byte, 16))))

	area0 := b.Root().ChildPath("layout0.area0")
	require.NotNil(t, area0)
	require.Equal(t, "area0", area0.Name())
	require.Equal(t, "layout0", area0.Parent().Name())
	require.Nil(t, b.Root().ChildPath("layout0.missing"))
}

func TestNode_Walk(t *testing.T) {
	b, err := FromString(`<template name="root">
		<field name="a" size="2"/>
		<field name="b" size="2"/>
	</template>`, "")
	require.NoError(t, err)
	require.NoError(t, b.SetData(NewByteStream(make([]byte, 8))))

	var names []string
	require.NoError(t, b.Root().Walk(func(n *Node) error {
		names = append(names, n.Name())
		return nil
	}))
	require.Equal(t, []string{"root", "a", "b"}, names)
}

func TestNode_ValueAndSetValue(t *testing.T) {
	b, err := FromString(`<template name="root">
		<field name="tag" size="3"/>
	</template>`, "")
	require.NoError(t, err)
	stream := NewByteStream(make([]byte, 8))
	require.NoError(t, b.SetData(stream))

	tag := b.Root().Child("tag")
	require.NoError(t, tag.SetValue([]byte{1, 2}))
	val, err := tag.Value()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 0}, val)
}
