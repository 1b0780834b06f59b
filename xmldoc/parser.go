package xmldoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arturoeanton/xmltree/xmltok"
)

// parseDocument runs the full pipeline: encoding detection and
// transcoding, then tokenizing and tree construction.
func parseDocument(raw []byte, cfg config) (*Document, error) {
	data, encodingLabel, err := decodeInput(raw, cfg)
	if err != nil {
		return nil, err
	}

	d := &Document{
		store:        newArenaStore(),
		Version:      "1.0",
		Encoding:     encodingLabel,
		Indent:       cfg.indent,
		IndentString: cfg.indentString,
		WriteDecl:    cfg.writeDecl,
		AttrQuote:    cfg.attrQuote,
	}

	p := &treeParser{doc: d, sc: xmltok.NewScanner(data), stack: []Handle{RootHandle}}
	if err := p.run(); err != nil {
		return nil, err
	}
	return d, nil
}

type treeParser struct {
	doc        *Document
	sc         *xmltok.Scanner
	stack      []Handle // innermost open element is stack[len(stack)-1]; stack[0] == RootHandle
	sawDecl    bool
	sawDocType bool
	anyMarkup  bool // true once anything but the XML declaration has been seen
}

func (p *treeParser) top() Handle { return p.stack[len(p.stack)-1] }

func (p *treeParser) run() error {
	for {
		ev, err := p.sc.Next()
		if err != nil {
			return reclassifyTokError(err)
		}
		switch ev.Kind {
		case xmltok.EOF:
			if len(p.stack) > 1 {
				return newError(UnclosedTag, ev.Offset, fmt.Sprintf("%q was never closed", p.doc.store.get(p.top()).FullName), nil)
			}
			return nil
		case xmltok.Decl:
			if p.anyMarkup || p.sawDecl {
				return newError(MisplacedXmlDecl, ev.Offset, "XML declaration must be the first thing in the document", nil)
			}
			p.sawDecl = true
			for _, a := range ev.Attrs {
				switch a.Name {
				case "version":
					p.doc.Version = a.Value
				case "encoding":
					p.doc.Encoding = a.Value
				case "standalone":
					p.doc.Standalone = a.Value
				}
			}
		case xmltok.DocType:
			p.anyMarkup = true
			if p.sawDocType {
				return newError(DoubleDocType, ev.Offset, "only one DOCTYPE declaration is allowed", nil)
			}
			if p.doc.hasRoot {
				return newError(MisplacedDocType, ev.Offset, "DOCTYPE must precede the root element", nil)
			}
			p.sawDocType = true
			p.doc.DocType = strings.TrimSpace(ev.Data)
		case xmltok.Comment:
			p.anyMarkup = true
			if strings.Contains(ev.Data, "--") {
				return newError(MalformedXml, ev.Offset, "comment must not contain \"--\"", nil)
			}
			if err := p.appendChild(NewCommentChild(ev.Data)); err != nil {
				return err
			}
		case xmltok.PI:
			p.anyMarkup = true
			if err := p.appendChild(NewPIChild(ev.Name, ev.Data)); err != nil {
				return err
			}
		case xmltok.CDATA:
			p.anyMarkup = true
			if strings.Contains(ev.Data, "]]>") {
				return newError(ContainsCdataEnd, ev.Offset, "CDATA section must not contain \"]]>\"", nil)
			}
			if err := p.appendChild(NewCDATAChild(ev.Data)); err != nil {
				return err
			}
		case xmltok.Text:
			p.anyMarkup = true
			if strings.TrimSpace(ev.Data) == "" && len(p.stack) == 1 {
				// Whitespace outside the root element carries no
				// information and has nowhere meaningful to live.
				continue
			}
			text, err := expandText(ev.Data, ev.Offset)
			if err != nil {
				return err
			}
			if err := p.appendChild(NewTextChild(text)); err != nil {
				return err
			}
		case xmltok.StartTag, xmltok.EmptyTag:
			p.anyMarkup = true
			if err := p.startElement(ev); err != nil {
				return err
			}
		case xmltok.EndTag:
			p.anyMarkup = true
			if err := p.endElement(ev); err != nil {
				return err
			}
		}
	}
}

func (p *treeParser) appendChild(node ChildNode) error {
	parent := Element{doc: p.doc, Handle: p.top()}
	if node.Kind == ElementNode {
		return parent.PushChild(node)
	}
	rec := p.doc.store.get(p.top())
	rec.Children = append(rec.Children, node)
	return nil
}

func (p *treeParser) startElement(ev xmltok.Event) error {
	if len(p.stack) == 1 && p.doc.hasRoot {
		return newError(MultipleRoots, ev.Offset, "document already has a root element", nil)
	}
	if err := validateName(ev.Name); err != nil {
		return err
	}

	rec := elementRecord{FullName: ev.Name, Parent: p.top(), attached: true}
	seen := make(map[string]bool, len(ev.Attrs))
	for _, a := range ev.Attrs {
		if seen[a.Name] {
			return newError(DuplicateAttribute, ev.Offset, fmt.Sprintf("duplicate attribute %q", a.Name), nil)
		}
		seen[a.Name] = true
		if err := validateName(a.Name); err != nil {
			return err
		}
		value, err := expandAttrValue(a.Value, a.Offset)
		if err != nil {
			return err
		}
		rec.Attrs = append(rec.Attrs, attr{Name: a.Name, Value: value})
	}

	h := p.doc.store.allocate(rec)

	parentH := p.top()
	parentRec := p.doc.store.get(parentH)
	parentRec.Children = append(parentRec.Children, NewElementChild(h))
	if parentH == RootHandle {
		p.doc.hasRoot = true
		p.doc.rootHandle = h
	}

	if ev.Kind == xmltok.StartTag {
		p.stack = append(p.stack, h)
	}
	return nil
}

func (p *treeParser) endElement(ev xmltok.Event) error {
	if len(p.stack) == 1 {
		return newError(MismatchedEndTag, ev.Offset, fmt.Sprintf("unexpected closing tag %q", ev.Name), nil)
	}
	openName := p.doc.store.get(p.top()).FullName
	if openName != ev.Name {
		return newError(MismatchedEndTag, ev.Offset,
			fmt.Sprintf("closing tag %q does not match open element %q", ev.Name, openName), nil)
	}
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

func reclassifyTokError(err error) error {
	if se, ok := err.(*xmltok.SyntaxError); ok {
		return newError(MalformedXml, se.Offset, se.Msg, se)
	}
	return newError(MalformedXml, -1, err.Error(), err)
}

// expandText expands entity and character references in a text node's
// raw content. Literal whitespace is preserved exactly as written;
// unlike attribute values, text content never collapses whitespace.
func expandText(raw string, baseOffset int) (string, error) {
	var sb strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] != '&' {
			sb.WriteByte(raw[i])
			i++
			continue
		}
		r, consumed, err := decodeReference(raw[i:], baseOffset+i)
		if err != nil {
			return "", err
		}
		sb.WriteRune(r)
		i += consumed
	}
	return sb.String(), nil
}

// expandAttrValue expands references exactly as expandText does, but
// additionally replaces each literal tab/newline/carriage-return/space
// with one space (XML 1.0 §3.3.3 attribute-value normalization); runs
// are not merged, so "\r\n" becomes two spaces. Whitespace characters produced by a character
// reference are passed through unmodified: &#x9; must survive as a
// literal tab, not collapse into a space.
func expandAttrValue(raw string, baseOffset int) (string, error) {
	var sb strings.Builder
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c == '&' {
			r, consumed, err := decodeReference(raw[i:], baseOffset+i)
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
			i += consumed
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			sb.WriteByte(' ')
			i++
			continue
		}
		sb.WriteByte(c)
		i++
	}
	return sb.String(), nil
}

// decodeReference decodes the entity or character reference at the
// start of s (which must begin with '&') and returns the character it
// stands for, the number of bytes it occupies in s, and any error.
func decodeReference(s string, offset int) (rune, int, error) {
	semi := strings.IndexByte(s, ';')
	if semi < 0 {
		return 0, 0, newError(MalformedXml, offset, "unterminated entity reference", nil)
	}
	name := s[1:semi]

	switch name {
	case "amp":
		return '&', semi + 1, nil
	case "lt":
		return '<', semi + 1, nil
	case "gt":
		return '>', semi + 1, nil
	case "quot":
		return '"', semi + 1, nil
	case "apos":
		return '\'', semi + 1, nil
	}

	if strings.HasPrefix(name, "#x") || strings.HasPrefix(name, "#X") {
		val, err := strconv.ParseInt(name[2:], 16, 32)
		if err != nil {
			return 0, 0, newError(InvalidCharRef, offset, fmt.Sprintf("invalid character reference &%s;", name), nil)
		}
		return validateCharRef(rune(val), name, offset)
	}
	if strings.HasPrefix(name, "#") {
		val, err := strconv.ParseInt(name[1:], 10, 32)
		if err != nil {
			return 0, 0, newError(InvalidCharRef, offset, fmt.Sprintf("invalid character reference &%s;", name), nil)
		}
		return validateCharRef(rune(val), name, offset)
	}

	return 0, 0, newError(UnknownEntity, offset, fmt.Sprintf("unknown entity &%s;", name), nil)
}

func validateCharRef(r rune, name string, offset int) (rune, int, error) {
	if !isValidXMLChar(r) {
		return 0, 0, newError(InvalidCharRef, offset, fmt.Sprintf("&%s; is not a legal XML character", name), nil)
	}
	return r, len(name) + 2, nil
}

// isValidXMLChar implements the XML 1.0 Char production.
func isValidXMLChar(r rune) bool {
	return r == 0x9 || r == 0xA || r == 0xD ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
