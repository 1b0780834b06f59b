// Package xmldoc is an arena-backed, round-trippable XML 1.0 document
// model: parse a byte stream into a tree addressed by stable integer
// handles, mutate it in place, and serialize it back out without
// losing structural fidelity (element order, mixed content, comments,
// processing instructions, the doctype).
//
// The event-level scanning lives one layer down, in xmltok; this
// package owns entity expansion, attribute-value normalization,
// well-formedness checking, and the tree itself.
package xmldoc

import (
	"io"
	"os"
	"strings"
)

// Document is a parsed (or freshly constructed) XML document: a prolog,
// an optional doctype, and a single root element, all addressed through
// Handles into an internal arena.
type Document struct {
	store arenaStore

	// Version and Encoding mirror the XML declaration this document was
	// parsed from (Encoding falls back to the detected input encoding
	// when the declaration names none), or the defaults for one built
	// with NewDocument. Standalone is "", "yes", or "no". Write always
	// emits UTF-8 and declares encoding="UTF-8" whatever Encoding holds.
	Version    string
	Encoding   string
	Standalone string

	// DocType is the raw internal-subset-inclusive text of a DOCTYPE
	// declaration ("root SYSTEM \"x.dtd\""), or "" if none was present.
	DocType string

	// Write-side defaults, settable through Option at construction or
	// mutated directly afterward.
	Indent       bool
	IndentString string
	WriteDecl    bool
	AttrQuote    byte

	rootHandle Handle
	hasRoot    bool
}

// NewDocument creates an empty document ready to be built up with
// CreateElement and PushChild.
func NewDocument(opts ...Option) *Document {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Document{
		store:        newArenaStore(),
		Version:      "1.0",
		Encoding:     "UTF-8",
		Indent:       cfg.indent,
		IndentString: cfg.indentString,
		WriteDecl:    cfg.writeDecl,
		AttrQuote:    cfg.attrQuote,
	}
}

// ParseReader reads and parses an entire XML document from r.
func ParseReader(r io.Reader, opts ...Option) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newError(IO, -1, "reading document", err)
	}
	return ParseBytes(data, opts...)
}

// ParseString parses an XML document held in a string.
func ParseString(s string, opts ...Option) (*Document, error) {
	return ParseBytes([]byte(s), opts...)
}

// ParseFile reads and parses the XML document stored at path.
func ParseFile(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(IO, -1, "reading "+path, err)
	}
	return ParseBytes(data, opts...)
}

// ParseBytes parses an XML document already held in memory.
func ParseBytes(data []byte, opts ...Option) (*Document, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return parseDocument(data, cfg)
}

// RootElement returns the document's single top-level element, if one
// has been parsed or attached.
func (d *Document) RootElement() (Element, bool) {
	if !d.hasRoot {
		return Element{}, false
	}
	return Element{doc: d, Handle: d.rootHandle}, true
}

// SetRootElement designates e as the document's root, attaching it
// under the container root. It fails with MultipleRoots if a root is
// already set, or with HasAParent/CyclicReference under the same rules
// as Element.PushChild.
func (d *Document) SetRootElement(e Element) error {
	if e.doc != d {
		return newError(MalformedXml, -1, "element belongs to a different document", nil)
	}
	root := Element{doc: d, Handle: RootHandle}
	return root.PushChild(NewElementChild(e.Handle))
}

// CreateElement allocates a new, unattached element named name. It
// fails with MalformedName if name does not satisfy the XML Name
// production.
func (d *Document) CreateElement(name string) (Element, error) {
	if err := validateName(name); err != nil {
		return Element{}, err
	}
	h := d.store.allocate(elementRecord{FullName: name, Parent: RootHandle})
	return Element{doc: d, Handle: h}, nil
}

// Write serializes the document to w.
func (d *Document) Write(w io.Writer) error {
	return writeDocument(w, d)
}

// WriteString serializes the document and returns it as a string.
func (d *Document) WriteString() (string, error) {
	var sb strings.Builder
	if err := d.Write(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteFile serializes the document to the file at path, creating or
// truncating it as needed.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return newError(IO, -1, "creating "+path, err)
	}
	defer f.Close()
	if err := d.Write(f); err != nil {
		return err
	}
	return nil
}
