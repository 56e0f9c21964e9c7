package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTree() *Template {
	root := &Template{Name: "root"}
	a := &Template{Name: "a", Parent: root}
	b := &Template{Name: "b", Parent: root}
	root.Children = []*Template{a, b}
	c := &Template{Name: "c", Parent: a}
	a.Children = []*Template{c}
	return root
}

func TestTemplate_ChildAndChildPath(t *testing.T) {
	root := buildTree()

	require.Same(t, root.Children[0], root.Child("a"))
	require.Nil(t, root.Child("missing"))
	require.Same(t, root.Children[0].Children[0], root.ChildPath("a.c"))
	require.Nil(t, root.ChildPath("a.missing"))
	require.Nil(t, root.ChildPath("missing.c"))
}

func TestTemplate_Siblings(t *testing.T) {
	root := buildTree()
	a, b := root.Children[0], root.Children[1]

	require.Nil(t, a.PreviousSibling())
	require.Same(t, b, a.NextSibling())
	require.Same(t, a, b.PreviousSibling())
	require.Nil(t, b.NextSibling())
	require.Nil(t, root.PreviousSibling())
	require.Nil(t, root.NextSibling())
}

func TestTemplate_Root(t *testing.T) {
	root := buildTree()
	c := root.Children[0].Children[0]
	require.Same(t, root, c.Root())
}

func TestTemplate_Clone(t *testing.T) {
	root := buildTree()
	a := root.Children[0]

	clone := a.Clone("a1")
	require.Equal(t, "a1", clone.Name)
	require.Nil(t, clone.Parent)
	require.Len(t, clone.Children, 1)
	require.Equal(t, "c", clone.Children[0].Name)
	require.Same(t, clone, clone.Children[0].Parent)
	require.NotSame(t, a.Children[0], clone.Children[0])
}

func TestTemplate_SetBindingContext_Propagates(t *testing.T) {
	root := buildTree()
	ctx := &BindingContext{Root: root}
	root.SetBindingContext(ctx)

	require.Same(t, ctx, root.BindingContext())
	require.Same(t, ctx, root.Children[0].BindingContext())
	require.Same(t, ctx, root.Children[0].Children[0].BindingContext())
	require.Same(t, ctx, root.Children[1].BindingContext())
}
