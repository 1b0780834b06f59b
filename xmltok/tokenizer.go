package xmltok

import (
	"fmt"
	"strings"
)

// Scanner turns a decoded Unicode byte stream (UTF-8, post encoding-layer
// transcoding) into a sequence of Events. The caller pulls events: call
// Next repeatedly until it returns an EOF event or an error.
type Scanner struct {
	src []byte
	pos int
}

// NewScanner creates a Scanner over src. src must already be UTF-8 —
// encoding detection and transcoding happen upstream, in xmldoc's
// encoding layer.
func NewScanner(src []byte) *Scanner {
	return &Scanner{src: src}
}

// Offset returns the scanner's current byte offset into the source.
func (s *Scanner) Offset() int {
	return s.pos
}

func (s *Scanner) errf(offset int, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// Next returns the next event in the stream. At end of input it returns
// an Event with Kind == EOF and a nil error.
func (s *Scanner) Next() (Event, error) {
	if s.pos >= len(s.src) {
		return Event{Kind: EOF, Offset: s.pos}, nil
	}

	if s.src[s.pos] != '<' {
		return s.scanText()
	}

	start := s.pos
	switch {
	case hasPrefixAt(s.src, s.pos, "<!--"):
		return s.scanComment(start)
	case hasPrefixAt(s.src, s.pos, "<![CDATA["):
		return s.scanCDATA(start)
	case hasPrefixAt(s.src, s.pos, "<!DOCTYPE"):
		return s.scanDocType(start)
	case hasPrefixAt(s.src, s.pos, "<?"):
		return s.scanPI(start)
	case hasPrefixAt(s.src, s.pos, "</"):
		return s.scanEndTag(start)
	default:
		return s.scanStartTag(start)
	}
}

func hasPrefixAt(b []byte, pos int, prefix string) bool {
	if pos+len(prefix) > len(b) {
		return false
	}
	return string(b[pos:pos+len(prefix)]) == prefix
}

func (s *Scanner) scanText() (Event, error) {
	start := s.pos
	i := start
	for i < len(s.src) && s.src[i] != '<' {
		i++
	}
	data := string(s.src[start:i])
	s.pos = i
	return Event{Kind: Text, Data: data, Offset: start}, nil
}

func (s *Scanner) scanComment(start int) (Event, error) {
	bodyStart := start + len("<!--")
	end := indexFrom(s.src, bodyStart, "-->")
	if end < 0 {
		return Event{}, s.errf(start, "unterminated comment")
	}
	data := string(s.src[bodyStart:end])
	s.pos = end + len("-->")
	return Event{Kind: Comment, Data: data, Offset: start}, nil
}

func (s *Scanner) scanCDATA(start int) (Event, error) {
	bodyStart := start + len("<![CDATA[")
	end := indexFrom(s.src, bodyStart, "]]>")
	if end < 0 {
		return Event{}, s.errf(start, "unterminated CDATA section")
	}
	data := string(s.src[bodyStart:end])
	s.pos = end + len("]]>")
	return Event{Kind: CDATA, Data: data, Offset: start}, nil
}

// scanDocType scans "<!DOCTYPE" ... matching ">" , tracking the optional
// internal subset "[ ... ]" and quoted literals so a ">" inside either
// doesn't terminate the construct early.
func (s *Scanner) scanDocType(start int) (Event, error) {
	bodyStart := start + len("<!DOCTYPE")
	i := bodyStart
	depth := 0
	var quote byte
	for i < len(s.src) {
		c := s.src[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			i++
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '>':
			if depth == 0 {
				data := string(s.src[bodyStart:i])
				s.pos = i + 1
				return Event{Kind: DocType, Data: data, Offset: start}, nil
			}
		}
		i++
	}
	return Event{}, s.errf(start, "unterminated DOCTYPE declaration")
}

func (s *Scanner) scanPI(start int) (Event, error) {
	bodyStart := start + len("<?")
	end := indexFrom(s.src, bodyStart, "?>")
	if end < 0 {
		return Event{}, s.errf(start, "unterminated processing instruction")
	}
	content := string(s.src[bodyStart:end])
	s.pos = end + len("?>")

	target, rest := splitName(content)
	trimmed := strings.TrimLeft(rest, " \t\r\n")
	restOffset := bodyStart + len(target) + len(rest) - len(trimmed)
	rest = trimmed

	if strings.EqualFold(target, "xml") {
		attrs, err := parseAttrs(rest, restOffset)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: Decl, Name: target, Attrs: attrs, Offset: start}, nil
	}
	return Event{Kind: PI, Name: target, Data: rest, Offset: start}, nil
}

func (s *Scanner) scanEndTag(start int) (Event, error) {
	bodyStart := start + len("</")
	end := indexByteFrom(s.src, bodyStart, '>')
	if end < 0 {
		return Event{}, s.errf(start, "unterminated end tag")
	}
	name := strings.TrimRight(string(s.src[bodyStart:end]), " \t\r\n")
	s.pos = end + 1
	return Event{Kind: EndTag, Name: name, Offset: start}, nil
}

func (s *Scanner) scanStartTag(start int) (Event, error) {
	i := start + 1
	name, i2 := scanName(s.src, i)
	if name == "" {
		return Event{}, s.errf(start, "expected element name after '<'")
	}
	i = i2

	attrs, closeIdx, selfClose, err := s.scanTagTail(i)
	if err != nil {
		return Event{}, err
	}
	s.pos = closeIdx + 1

	kind := StartTag
	if selfClose {
		kind = EmptyTag
	}
	return Event{Kind: kind, Name: name, Attrs: attrs, Offset: start}, nil
}

// scanTagTail scans attributes starting at i until '>' or '/>', returning
// the parsed attributes, the index of the closing '>', and whether the
// tag was self-closing.
func (s *Scanner) scanTagTail(i int) ([]RawAttr, int, bool, error) {
	var attrs []RawAttr
	for {
		i = skipSpace(s.src, i)
		if i >= len(s.src) {
			return nil, 0, false, s.errf(i, "unterminated tag")
		}
		if s.src[i] == '/' {
			if i+1 >= len(s.src) || s.src[i+1] != '>' {
				return nil, 0, false, s.errf(i, "malformed self-closing tag")
			}
			return attrs, i + 1, true, nil
		}
		if s.src[i] == '>' {
			return attrs, i, false, nil
		}

		name, j := scanName(s.src, i)
		if name == "" {
			return nil, 0, false, s.errf(i, "expected attribute name or tag close")
		}
		j = skipSpace(s.src, j)
		if j >= len(s.src) || s.src[j] != '=' {
			return nil, 0, false, s.errf(j, "expected '=' after attribute name %q", name)
		}
		j = skipSpace(s.src, j+1)
		if j >= len(s.src) || (s.src[j] != '"' && s.src[j] != '\'') {
			return nil, 0, false, s.errf(j, "expected quoted attribute value for %q", name)
		}
		quote := s.src[j]
		j++
		valStart := j
		for j < len(s.src) && s.src[j] != quote {
			if s.src[j] == '<' {
				return nil, 0, false, s.errf(j, "attribute value for %q contains '<'", name)
			}
			j++
		}
		if j >= len(s.src) {
			return nil, 0, false, s.errf(valStart, "unterminated attribute value for %q", name)
		}
		attrs = append(attrs, RawAttr{Name: name, Value: string(s.src[valStart:j]), Quote: quote, Offset: valStart})
		i = j + 1
	}
}

// parseAttrs parses the attribute list of an XML declaration
// ("version=\"1.0\" encoding=\"utf-8\"") using the same grammar as tag
// attributes, without requiring a terminating '>' or '/>'.
func parseAttrs(s string, baseOffset int) ([]RawAttr, error) {
	b := []byte(s)
	var attrs []RawAttr
	i := 0
	for {
		i = skipSpace(b, i)
		if i >= len(b) {
			return attrs, nil
		}
		name, j := scanName(b, i)
		if name == "" {
			return nil, &SyntaxError{Offset: baseOffset + i, Msg: "expected attribute name in declaration"}
		}
		j = skipSpace(b, j)
		if j >= len(b) || b[j] != '=' {
			return nil, &SyntaxError{Offset: baseOffset + j, Msg: "expected '=' in declaration"}
		}
		j = skipSpace(b, j+1)
		if j >= len(b) || (b[j] != '"' && b[j] != '\'') {
			return nil, &SyntaxError{Offset: baseOffset + j, Msg: "expected quoted value in declaration"}
		}
		quote := b[j]
		j++
		valStart := j
		for j < len(b) && b[j] != quote {
			j++
		}
		if j >= len(b) {
			return nil, &SyntaxError{Offset: baseOffset + valStart, Msg: "unterminated value in declaration"}
		}
		attrs = append(attrs, RawAttr{Name: name, Value: string(b[valStart:j]), Quote: quote, Offset: baseOffset + valStart})
		i = j + 1
	}
}

func splitName(s string) (name, rest string) {
	i := 0
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func skipSpace(b []byte, i int) int {
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// scanName scans an XML Name production starting at i: a leading letter,
// '_', or ':', followed by name characters (letters, digits, '.', '-',
// '_', ':'). It deliberately accepts a superset of the full Unicode Name
// production (non-ASCII bytes are accepted as name characters) — strict
// Name validation happens where names are bound to elements/attributes,
// not in the tokenizer.
func scanName(b []byte, i int) (string, int) {
	start := i
	if i >= len(b) {
		return "", i
	}
	if !isNameStartByte(b[i]) {
		return "", i
	}
	i++
	for i < len(b) && isNameByte(b[i]) {
		i++
	}
	return string(b[start:i]), i
}

func isNameStartByte(c byte) bool {
	return c == ':' || c == '_' ||
		(c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
		c >= 0x80
}

func isNameByte(c byte) bool {
	return isNameStartByte(c) || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

func indexFrom(b []byte, from int, sub string) int {
	if from > len(b) {
		return -1
	}
	idx := strings.Index(string(b[from:]), sub)
	if idx < 0 {
		return -1
	}
	return from + idx
}

func indexByteFrom(b []byte, from int, c byte) int {
	if from > len(b) {
		return -1
	}
	idx := strings.IndexByte(string(b[from:]), c)
	if idx < 0 {
		return -1
	}
	return from + idx
}
