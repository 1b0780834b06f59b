package xmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStripsUTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`<a>hi</a>`)...)
	doc, err := ParseBytes(data)
	require.NoError(t, err)
	root, _ := doc.RootElement()
	assert.Equal(t, "hi", root.Text())
}

func TestParseRejectsUTF32BOM(t *testing.T) {
	data := []byte{0xFF, 0xFE, 0x00, 0x00}
	data = append(data, []byte(`<a/>`)...)
	_, err := ParseBytes(data)
	require.Error(t, err)
	assert.Equal(t, EncodingNotSupported, err.(*Error).Kind)
}

func TestParseDetectsEncodingMismatchBetweenBOMAndDeclaration(t *testing.T) {
	utf16le := []byte{0xFF, 0xFE}
	doc := `<?xml version="1.0" encoding="UTF-8"?><a/>`
	for _, r := range doc {
		utf16le = append(utf16le, byte(r), 0)
	}
	_, err := ParseBytes(utf16le)
	require.Error(t, err)
	assert.Equal(t, EncodingMismatch, err.(*Error).Kind)
}

func TestParseHonorsCompatibleBOMAndDeclaration(t *testing.T) {
	utf16le := []byte{0xFF, 0xFE}
	doc := `<?xml version="1.0" encoding="UTF-16"?><a>ok</a>`
	for _, r := range doc {
		utf16le = append(utf16le, byte(r), 0)
	}
	parsed, err := ParseBytes(utf16le)
	require.NoError(t, err)
	root, _ := parsed.RootElement()
	assert.Equal(t, "ok", root.Text())
}

func TestParseDefaultsToUTF8WithNoBOMOrDeclaration(t *testing.T) {
	doc, err := ParseBytes([]byte(`<a>plain</a>`))
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", doc.Encoding)
}

func TestParseRejectsUnknownEncodingWithoutLegacyOption(t *testing.T) {
	_, err := ParseString(`<?xml version="1.0" encoding="x-made-up"?><a/>`)
	require.Error(t, err)
	assert.Equal(t, EncodingNotSupported, err.(*Error).Kind)
}
