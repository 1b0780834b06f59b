// Package xmltok is the low-level event tokenizer xmldoc's parser drives.
//
// It knows nothing about entity expansion, attribute-value normalization,
// or tree structure — only about recognizing tag/comment/CDATA/doctype
// boundaries and correctly matched attribute-value quoting in a byte
// stream. Everything it emits for text and attribute values is the raw,
// unexpanded source slice; turning that into a tree with normalized values
// is xmldoc's job.
package xmltok

import "fmt"

// Kind identifies the shape of an Event.
type Kind int

const (
	EOF Kind = iota
	StartTag
	EndTag
	EmptyTag
	Text
	CDATA
	Comment
	PI
	Decl
	DocType
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case StartTag:
		return "StartTag"
	case EndTag:
		return "EndTag"
	case EmptyTag:
		return "EmptyTag"
	case Text:
		return "Text"
	case CDATA:
		return "CDATA"
	case Comment:
		return "Comment"
	case PI:
		return "PI"
	case Decl:
		return "Decl"
	case DocType:
		return "DocType"
	default:
		return "Unknown"
	}
}

// RawAttr is an attribute exactly as it appeared in the source: the value
// has not been entity-expanded and whitespace inside it has not been
// normalized.
type RawAttr struct {
	Name  string
	Value string
	Quote byte // '"' or '\''

	// Offset is the byte offset of the first character of Value in the
	// input (i.e. just past the opening quote).
	Offset int
}

// Event is one token produced by Scanner.Next.
type Event struct {
	Kind Kind

	// Name carries the tag name for StartTag/EndTag/EmptyTag, and the PI
	// target for PI/Decl.
	Name string

	// Attrs carries source-order, unexpanded attributes for
	// StartTag/EmptyTag/Decl.
	Attrs []RawAttr

	// Data carries the raw, unexpanded payload for Text, CDATA, Comment,
	// DocType, and the data portion (after the target) for PI.
	Data string

	// Offset is the byte offset of the start of this token in the input.
	Offset int
}

// SyntaxError reports a tokenizing failure at a byte offset. xmldoc
// reclassifies these into its own typed errors; xmltok itself has no
// opinion on error "kinds" beyond "the input wasn't well-formed here".
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("xmltok: %s (offset %d)", e.Msg, e.Offset)
}
