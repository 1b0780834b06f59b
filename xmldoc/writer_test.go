package xmldoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRoundTripsSimpleDocument(t *testing.T) {
	doc, err := ParseString(`<root a="1"><child>hi &amp; bye</child></root>`)
	require.NoError(t, err)

	out, err := doc.WriteString()
	require.NoError(t, err)

	reparsed, err := ParseString(out)
	require.NoError(t, err)
	root, _ := reparsed.RootElement()
	assert.Equal(t, "root", root.Name())
	child, ok := root.Find("child")
	require.True(t, ok)
	assert.Equal(t, "hi & bye", child.Text())
}

func TestWriteEmptyElementIsSelfClosing(t *testing.T) {
	doc := NewDocument(WithoutIndent())
	root, _ := doc.CreateElement("root")
	require.NoError(t, doc.SetRootElement(root))

	out, err := doc.WriteString()
	require.NoError(t, err)
	assert.Contains(t, out, "<root/>")
}

func TestWriteEscapesAttributeAndTextSpecialCharacters(t *testing.T) {
	doc := NewDocument(WithoutIndent())
	root, _ := doc.CreateElement("root")
	require.NoError(t, doc.SetRootElement(root))
	require.NoError(t, root.SetAttribute("q", `a"b<c&d`))
	require.NoError(t, root.PushChild(NewTextChild("x<y&z")))

	out, err := doc.WriteString()
	require.NoError(t, err)
	assert.Contains(t, out, `q="a&quot;b&lt;c&amp;d"`)
	assert.Contains(t, out, "x&lt;y&amp;z")
}

func TestWriteSuppressesIndentInsideMixedContent(t *testing.T) {
	doc, err := ParseString(`<p>hello <b>world</b>!</p>`, WithIndent("  "))
	require.NoError(t, err)
	out, err := doc.WriteString()
	require.NoError(t, err)
	// No newline should have been inserted between "hello " and "<b>"
	assert.False(t, strings.Contains(out, "hello \n"))
}

func TestWriteRejectsCDATAContainingTerminator(t *testing.T) {
	doc := NewDocument(WithoutIndent())
	root, _ := doc.CreateElement("root")
	require.NoError(t, doc.SetRootElement(root))
	require.NoError(t, root.PushChild(NewCDATAChild("a]]>b")))

	_, err := doc.WriteString()
	require.Error(t, err)
	var xerr *Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, ContainsCdataEnd, xerr.Kind)
}

func TestWriteRejectsCommentContainingDoubleHyphen(t *testing.T) {
	doc := NewDocument(WithoutIndent())
	root, _ := doc.CreateElement("root")
	require.NoError(t, doc.SetRootElement(root))
	require.NoError(t, root.PushChild(NewCommentChild("a--b")))

	_, err := doc.WriteString()
	require.Error(t, err)
	var xerr *Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, MalformedXml, xerr.Kind)
}
