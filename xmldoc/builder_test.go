package xmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderAttachesAsRoot(t *testing.T) {
	doc := NewDocument(WithoutIndent())
	rootBuilder := NewBuilder("catalog", doc)
	rootBuilder.
		Attr("version", "1").
		Element("book", func(b *Builder) {
			b.Attr("id", "1").Child(NewTextChild("Go in Practice"))
		})

	built, err := rootBuilder.BuildRoot()
	require.NoError(t, err)

	root, ok := built.RootElement()
	require.True(t, ok)
	assert.Equal(t, "catalog", root.Name())
	v, _ := root.Attribute("version")
	assert.Equal(t, "1", v)

	book, ok := root.Find("book")
	require.True(t, ok)
	id, _ := book.Attribute("id")
	assert.Equal(t, "1", id)
	assert.Equal(t, "Go in Practice", book.Text())
}

func TestBuilderPropagatesErrors(t *testing.T) {
	doc := NewDocument()
	b := NewBuilder("1bad", doc)
	assert.Error(t, b.Err())
	_, err := b.BuildRoot()
	assert.Error(t, err)
}
