package xquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/xmltree/xmldoc"
)

func mustParse(t *testing.T, s string) xmldoc.Element {
	t.Helper()
	doc, err := xmldoc.ParseString(s)
	require.NoError(t, err)
	root, ok := doc.RootElement()
	require.True(t, ok)
	return root
}

func TestFindDescendsPath(t *testing.T) {
	root := mustParse(t, `<catalog><book><title>Go</title></book></catalog>`)
	title, ok := Find(root, "book/title")
	require.True(t, ok)
	assert.Equal(t, "Go", title.Text())
}

func TestFindAllDeepSearch(t *testing.T) {
	root := mustParse(t, `<a><b><c id="1"/></b><c id="2"/></a>`)
	matches := FindAll(root, "//c")
	require.Len(t, matches, 2)
	v1, _ := matches[0].Attribute("id")
	v2, _ := matches[1].Attribute("id")
	assert.ElementsMatch(t, []string{"1", "2"}, []string{v1, v2})
}

func TestFindPositionalIndex(t *testing.T) {
	root := mustParse(t, `<a><item>one</item><item>two</item><item>three</item></a>`)
	second, ok := Find(root, "item[2]")
	require.True(t, ok)
	assert.Equal(t, "two", second.Text())
}

func TestFindAttributeFilter(t *testing.T) {
	root := mustParse(t, `<a><item id="x">1</item><item id="y">2</item></a>`)
	match, ok := Find(root, `item[@id='y']`)
	require.True(t, ok)
	assert.Equal(t, "2", match.Text())
}

func TestTextReadsAttributeSegment(t *testing.T) {
	root := mustParse(t, `<a><item id="7">hi</item></a>`)
	v, ok := Text(root, "item/@id")
	require.True(t, ok)
	assert.Equal(t, "7", v)
}

func TestTextExplicitTextSegment(t *testing.T) {
	root := mustParse(t, `<a><item>hi</item></a>`)
	v, ok := Text(root, "item/#text")
	require.True(t, ok)
	assert.Equal(t, "hi", v)
}

func TestCount(t *testing.T) {
	root := mustParse(t, `<a><item/><item/><item/></a>`)
	assert.Equal(t, 3, Count(root, "item"))
}

func TestFindAllReturnsNilOnNoMatch(t *testing.T) {
	root := mustParse(t, `<a><item/></a>`)
	assert.Nil(t, FindAll(root, "missing"))
}
