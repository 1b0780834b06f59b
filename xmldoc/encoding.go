package xmldoc

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var declEncodingRe = regexp.MustCompile(`encoding\s*=\s*["']([^"']+)["']`)

// decodeInput applies the detection order documented for this package:
// BOM sniffing, then a UTF-16 "<?xml" byte-pattern sniff, then the
// declared encoding="..." attribute, defaulting to UTF-8. It returns
// UTF-8 bytes ready for xmltok, along with the resolved encoding label
// (for round-tripping into Document.Encoding).
func decodeInput(data []byte, cfg config) ([]byte, string, error) {
	bomLabel, consumed, found, err := detectBOM(data)
	if err != nil {
		return nil, "", err
	}
	if found {
		out, err := transcodeBOM(data[consumed:], bomLabel)
		if err != nil {
			return nil, "", err
		}
		if declared, ok := sniffDeclaredEncoding(out); ok {
			if !encodingFamiliesCompatible(bomLabel, declared) {
				return nil, "", newError(EncodingMismatch, 0,
					fmt.Sprintf("byte-order mark indicates %s but the declaration says %q", bomLabel, declared), nil)
			}
		}
		return out, bomLabel, nil
	}

	if endian, ok := detectUTF16Pattern(data); ok {
		label := "UTF-16LE"
		if endian == unicode.BigEndian {
			label = "UTF-16BE"
		}
		out, err := utf16Decode(data, endian, unicode.IgnoreBOM)
		if err != nil {
			return nil, "", err
		}
		if declared, ok := sniffDeclaredEncoding(out); ok {
			if !encodingFamiliesCompatible(label, declared) {
				return nil, "", newError(EncodingMismatch, 0,
					fmt.Sprintf("input pattern indicates %s but the declaration says %q", label, declared), nil)
			}
		}
		return out, label, nil
	}

	if declared, ok := sniffDeclaredEncoding(data); ok {
		return transcodeLabel(data, declared, cfg.legacyCharsets)
	}

	return data, "UTF-8", nil
}

func detectBOM(data []byte) (label string, consumed int, found bool, err error) {
	switch {
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0xFF, 0xFE, 0x00, 0x00}):
		return "", 0, false, newError(EncodingNotSupported, 0, "UTF-32LE byte-order mark is not supported", nil)
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0x00, 0x00, 0xFE, 0xFF}):
		return "", 0, false, newError(EncodingNotSupported, 0, "UTF-32BE byte-order mark is not supported", nil)
	case len(data) >= 3 && bytes.Equal(data[:3], []byte{0xEF, 0xBB, 0xBF}):
		return "UTF-8", 3, true, nil
	case len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFF, 0xFE}):
		return "UTF-16LE", 2, true, nil
	case len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFE, 0xFF}):
		return "UTF-16BE", 2, true, nil
	default:
		return "", 0, false, nil
	}
}

func detectUTF16Pattern(data []byte) (unicode.Endianness, bool) {
	if len(data) >= 4 && data[0] == '<' && data[1] == 0 && data[2] == '?' && data[3] == 0 {
		return unicode.LittleEndian, true
	}
	if len(data) >= 4 && data[0] == 0 && data[1] == '<' && data[2] == 0 && data[3] == '?' {
		return unicode.BigEndian, true
	}
	return unicode.LittleEndian, false
}

func transcodeBOM(rest []byte, label string) ([]byte, error) {
	switch label {
	case "UTF-16LE":
		return utf16Decode(rest, unicode.LittleEndian, unicode.IgnoreBOM)
	case "UTF-16BE":
		return utf16Decode(rest, unicode.BigEndian, unicode.IgnoreBOM)
	default:
		return rest, nil
	}
}

func utf16Decode(data []byte, endian unicode.Endianness, policy unicode.BOMPolicy) ([]byte, error) {
	enc := unicode.UTF16(endian, policy)
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, newError(CannotDecode, 0, "decoding UTF-16 input", err)
	}
	return out, nil
}

// transcodeLabel decodes data from the named encoding into UTF-8. UTF-8
// and the UTF-16 family are handled directly; anything else goes
// through golang.org/x/net/html/charset, and only when legacy is set.
func transcodeLabel(data []byte, label string, legacy bool) ([]byte, string, error) {
	norm := strings.ToUpper(strings.TrimSpace(label))
	switch norm {
	case "UTF-8", "UTF8", "":
		return data, "UTF-8", nil
	case "UTF-16":
		// No byte-order mark and no declared endianness: fall back to
		// little-endian, the overwhelmingly common case in practice.
		out, err := utf16Decode(data, unicode.LittleEndian, unicode.IgnoreBOM)
		if err != nil {
			return nil, "", err
		}
		return out, "UTF-16LE", nil
	case "UTF-16LE":
		out, err := utf16Decode(data, unicode.LittleEndian, unicode.IgnoreBOM)
		if err != nil {
			return nil, "", err
		}
		return out, "UTF-16LE", nil
	case "UTF-16BE":
		out, err := utf16Decode(data, unicode.BigEndian, unicode.IgnoreBOM)
		if err != nil {
			return nil, "", err
		}
		return out, "UTF-16BE", nil
	}

	if !legacy {
		return nil, "", newError(EncodingNotSupported, 0,
			fmt.Sprintf("unsupported encoding %q (use EnableLegacyCharsets to allow it)", label), nil)
	}
	enc, canonicalName := charset.Lookup(norm)
	if enc == nil {
		return nil, "", newError(EncodingNotSupported, 0, fmt.Sprintf("unknown encoding %q", label), nil)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, "", newError(CannotDecode, 0, fmt.Sprintf("decoding %q input", label), err)
	}
	return out, canonicalName, nil
}

// sniffDeclaredEncoding looks for encoding="..." inside a leading
// "<?xml" declaration, i.e. up to the first '>' within the first 200
// bytes of data, treating it as ASCII-compatible text. This only needs to
// work on the declaration itself, which XML requires to be plain ASCII
// regardless of the document's overall encoding.
func sniffDeclaredEncoding(data []byte) (string, bool) {
	limit := len(data)
	if limit > 200 {
		limit = 200
	}
	head := data[:limit]
	end := bytes.IndexByte(head, '>')
	if end < 0 {
		end = limit
	}
	line := string(head[:end])
	if !strings.HasPrefix(strings.TrimSpace(line), "<?xml") {
		return "", false
	}
	m := declEncodingRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func encodingFamiliesCompatible(bomLabel, declared string) bool {
	a := strings.ToUpper(strings.TrimSpace(bomLabel))
	b := strings.ToUpper(strings.TrimSpace(declared))
	if a == b {
		return true
	}
	if b == "UTF-16" && strings.HasPrefix(a, "UTF-16") {
		return true
	}
	if b == "UTF8" && a == "UTF-8" {
		return true
	}
	return false
}
