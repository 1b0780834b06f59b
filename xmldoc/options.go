package xmldoc

// config gathers the knobs the functional Options below touch. A few
// affect decoding (legacyCharsets), the rest are write-side defaults
// copied onto the Document at construction time, matching the
// teacher's habit of one config struct fed by a chain of Options.
type config struct {
	legacyCharsets bool
	indent         bool
	indentString   string
	writeDecl      bool
	attrQuote      byte
}

func defaultConfig() config {
	return config{
		indent:       false,
		indentString: "  ",
		writeDecl:    true,
		attrQuote:    '"',
	}
}

// Option configures parsing and/or the write-side defaults of a new
// Document.
type Option func(*config)

// WithIndent turns on indentation for Write/WriteString/WriteFile using
// the given per-level indent string.
func WithIndent(indentString string) Option {
	return func(c *config) {
		c.indent = true
		c.indentString = indentString
	}
}

// WithoutIndent disables indentation; elements are written with no
// inserted whitespace between them.
func WithoutIndent() Option {
	return func(c *config) { c.indent = false }
}

// WithDeclaration controls whether Write emits a leading
// "<?xml version=... encoding=...?>" declaration.
func WithDeclaration(on bool) Option {
	return func(c *config) { c.writeDecl = on }
}

// WithAttrQuote selects the quote character ('"' or '\'') used when
// writing attribute values.
func WithAttrQuote(q byte) Option {
	return func(c *config) { c.attrQuote = q }
}

// EnableLegacyCharsets allows ParseReader/ParseString/ParseFile to
// transcode documents declaring a non-Unicode encoding (Latin-1,
// Windows-1252, Shift-JIS, and the other labels golang.org/x/net's
// charset package knows) instead of rejecting them with
// EncodingNotSupported.
func EnableLegacyCharsets() Option {
	return func(c *config) { c.legacyCharsets = true }
}
