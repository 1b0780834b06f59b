package xmldoc

import (
	"io"
	"strings"
)

// writeDocument serializes d to w: an optional XML declaration (always
// naming UTF-8, the only output encoding), the doctype if one is set,
// and then the container root's children (top-level comments,
// processing instructions and the root element) in document order,
// each followed by a newline when indentation is enabled.
func writeDocument(w io.Writer, d *Document) error {
	bw := &errWriter{w: w}

	if d.WriteDecl {
		bw.writeString("<?xml version=\"")
		bw.writeString(orDefault(d.Version, "1.0"))
		bw.writeString("\" encoding=\"")
		bw.writeString("UTF-8")
		bw.writeString("\"")
		if d.Standalone != "" {
			bw.writeString(" standalone=\"")
			bw.writeString(d.Standalone)
			bw.writeString("\"")
		}
		bw.writeString("?>")
		if d.Indent {
			bw.writeString("\n")
		}
	}

	if d.DocType != "" {
		bw.writeString("<!DOCTYPE ")
		bw.writeString(d.DocType)
		bw.writeString(">")
		if d.Indent {
			bw.writeString("\n")
		}
	}

	quote := d.AttrQuote
	if quote != '"' && quote != '\'' {
		quote = '"'
	}
	container := Element{doc: d, Handle: RootHandle}
	for _, c := range container.Children() {
		if err := writeChildNode(bw, container, c, 0, d.Indent, orDefault(d.IndentString, "  "), quote); err != nil {
			return err
		}
	}

	return bw.err
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// writeElement writes e and its subtree. Indentation is suppressed
// inside any element that has non-whitespace-only mixed content, since
// inserted whitespace would corrupt that content. It returns the first
// tree-invariant violation (ContainsCdataEnd, MalformedXml) encountered
// among e's descendants, aborting the write at that point.
func writeElement(w *errWriter, e Element, depth int, indent bool, indentString string, quote byte) error {
	pad := ""
	if indent {
		pad = strings.Repeat(indentString, depth)
	}

	w.writeString(pad)
	w.writeString("<")
	w.writeString(e.Name())
	for _, a := range e.Attributes() {
		w.writeString(" ")
		w.writeString(a.Name)
		w.writeString("=")
		w.writeByte(quote)
		w.writeString(escapeAttrValue(a.Value, quote))
		w.writeByte(quote)
	}

	children := e.Children()
	if len(children) == 0 {
		w.writeString("/>")
		if indent {
			w.writeString("\n")
		}
		return nil
	}
	w.writeString(">")

	childIndent := indent && !hasSignificantText(children)
	if childIndent {
		w.writeString("\n")
	}
	for _, c := range children {
		if err := writeChildNode(w, e, c, depth+1, childIndent, indentString, quote); err != nil {
			return err
		}
	}
	if childIndent {
		w.writeString(pad)
	}
	w.writeString("</")
	w.writeString(e.Name())
	w.writeString(">")
	if indent {
		w.writeString("\n")
	}
	return nil
}

// hasSignificantText reports whether children contains any text or
// CDATA node with non-whitespace content. Such content is "significant"
// in the sense that inserting whitespace around it at write time would
// change what a reader parses back out.
func hasSignificantText(children []ChildNode) bool {
	for _, c := range children {
		if (c.Kind == TextNode || c.Kind == CDATANode) && strings.TrimSpace(c.Text) != "" {
			return true
		}
	}
	return false
}

func writeChildNode(w *errWriter, parent Element, c ChildNode, depth int, indent bool, indentString string, quote byte) error {
	pad := ""
	if indent {
		pad = strings.Repeat(indentString, depth)
	}
	switch c.Kind {
	case ElementNode:
		return writeElement(w, Element{doc: parent.doc, Handle: c.Handle}, depth, indent, indentString, quote)
	case TextNode:
		w.writeString(pad)
		w.writeString(escapeText(c.Text))
		if indent {
			w.writeString("\n")
		}
	case CDATANode:
		if strings.Contains(c.Text, "]]>") {
			return newError(ContainsCdataEnd, -1, "CDATA section payload contains ]]>", nil)
		}
		w.writeString(pad)
		w.writeString("<![CDATA[")
		w.writeString(c.Text)
		w.writeString("]]>")
		if indent {
			w.writeString("\n")
		}
	case CommentNode:
		if strings.Contains(c.Text, "--") {
			return newError(MalformedXml, -1, "comment body contains --", nil)
		}
		w.writeString(pad)
		w.writeString("<!--")
		w.writeString(c.Text)
		w.writeString("-->")
		if indent {
			w.writeString("\n")
		}
	case PINode:
		w.writeString(pad)
		w.writeString("<?")
		w.writeString(c.Text)
		w.writeString("?>")
		if indent {
			w.writeString("\n")
		}
	case DocTypeNode:
		w.writeString(pad)
		w.writeString("<!DOCTYPE ")
		w.writeString(c.Text)
		w.writeString(">")
		if indent {
			w.writeString("\n")
		}
	}
	return nil
}

// escapeText escapes the characters text content must never contain
// literally: '&' and '<' always, '>' only when it could be mistaken
// for the end of a CDATA section ("]]>").
func escapeText(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			if i >= 2 && s[i-2] == ']' && s[i-1] == ']' {
				sb.WriteString("&gt;")
			} else {
				sb.WriteByte('>')
			}
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// escapeAttrValue escapes an attribute value for writing inside quote
// characters, additionally escaping tab/newline/carriage-return so the
// written form round-trips through attribute-value normalization
// unchanged.
func escapeAttrValue(s string, quote byte) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '\t':
			sb.WriteString("&#x9;")
		case '\n':
			sb.WriteString("&#xA;")
		case '\r':
			sb.WriteString("&#xD;")
		case '"':
			if quote == '"' {
				sb.WriteString("&quot;")
			} else {
				sb.WriteByte('"')
			}
		case '\'':
			if quote == '\'' {
				sb.WriteString("&apos;")
			} else {
				sb.WriteByte('\'')
			}
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// errWriter wraps an io.Writer, latching the first error it sees so
// callers can perform a sequence of writes and check once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
	if e.err != nil {
		e.err = newError(IO, -1, "writing document", e.err)
	}
}

func (e *errWriter) writeByte(b byte) {
	e.writeString(string([]byte{b}))
}
