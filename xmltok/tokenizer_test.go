package xmltok

import "testing"

func collect(t *testing.T, src string) []Event {
	t.Helper()
	sc := NewScanner([]byte(src))
	var events []Event
	for {
		ev, err := sc.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		events = append(events, ev)
		if ev.Kind == EOF {
			break
		}
	}
	return events
}

func TestScannerStartEndTags(t *testing.T) {
	events := collect(t, `<a><b x="1">hi</b></a>`)
	kinds := []Kind{StartTag, StartTag, Text, EndTag, EndTag, EOF}
	if len(events) != len(kinds) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(kinds), events)
	}
	for i, k := range kinds {
		if events[i].Kind != k {
			t.Errorf("event %d: got kind %v, want %v", i, events[i].Kind, k)
		}
	}
	if events[1].Attrs[0].Name != "x" || events[1].Attrs[0].Value != "1" {
		t.Errorf("attr mismatch: %+v", events[1].Attrs)
	}
}

func TestScannerEmptyTag(t *testing.T) {
	events := collect(t, `<br/>`)
	if events[0].Kind != EmptyTag || events[0].Name != "br" {
		t.Fatalf("got %+v", events[0])
	}
}

func TestScannerCommentAndCDATA(t *testing.T) {
	events := collect(t, `<!-- hi --><![CDATA[<raw>]]>`)
	if events[0].Kind != Comment || events[0].Data != " hi " {
		t.Fatalf("comment: %+v", events[0])
	}
	if events[1].Kind != CDATA || events[1].Data != "<raw>" {
		t.Fatalf("cdata: %+v", events[1])
	}
}

func TestScannerDocTypeWithInternalSubset(t *testing.T) {
	events := collect(t, `<!DOCTYPE root [ <!ENTITY x "a > b"> ]><root/>`)
	if events[0].Kind != DocType {
		t.Fatalf("got %+v", events[0])
	}
	if events[1].Kind != EmptyTag || events[1].Name != "root" {
		t.Fatalf("got %+v", events[1])
	}
}

func TestScannerDeclVsPI(t *testing.T) {
	events := collect(t, `<?xml version="1.0" encoding="UTF-8"?><?foo bar baz?>`)
	if events[0].Kind != Decl {
		t.Fatalf("got %+v", events[0])
	}
	if len(events[0].Attrs) != 2 || events[0].Attrs[0].Name != "version" || events[0].Attrs[1].Value != "UTF-8" {
		t.Fatalf("decl attrs: %+v", events[0].Attrs)
	}
	if events[1].Kind != PI || events[1].Name != "foo" || events[1].Data != "bar baz" {
		t.Fatalf("pi: %+v", events[1])
	}
}

func TestScannerAttributeOffsets(t *testing.T) {
	const src = `<a id="42"/>`
	events := collect(t, src)
	attr := events[0].Attrs[0]
	if src[attr.Offset:attr.Offset+len(attr.Value)] != attr.Value {
		t.Fatalf("offset %d does not point at value %q in %q", attr.Offset, attr.Value, src)
	}
}

func TestScannerRejectsAngleInAttrValue(t *testing.T) {
	sc := NewScanner([]byte(`<a id="1<2"/>`))
	for {
		_, err := sc.Next()
		if err != nil {
			return
		}
	}
}

func TestScannerUnterminatedComment(t *testing.T) {
	sc := NewScanner([]byte(`<!-- never closed`))
	_, err := sc.Next()
	if err == nil {
		t.Fatal("expected error for unterminated comment")
	}
}
