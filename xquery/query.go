// Package xquery is a small path-query language over xmldoc trees,
// generalized from a dynamic-map query engine into one that walks
// xmldoc.Element directly. A path is a sequence of "/"-separated
// segments:
//
//	a/b/c        descend through named children
//	//name       find every element named name, at any depth (root included)
//	a/b[2]       the 2nd (1-indexed) "b" child of a
//	a/b[@id='5'] the "b" child whose id attribute equals "5"
//	a/@attr      the value of a's "attr" attribute
//	a/#text      the direct text of a
package xquery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arturoeanton/xmltree/xmldoc"
)

// FindAll evaluates path against root and returns every matching
// element. It matches elements only: a path containing an attribute
// ("@x") or text ("#text") segment matches nothing here; Text handles
// those as the final segment.
func FindAll(root xmldoc.Element, path string) []xmldoc.Element {
	path = strings.TrimSpace(path)
	if path == "" {
		return []xmldoc.Element{root}
	}
	if strings.HasPrefix(path, "//") {
		return findDeep(root, strings.TrimPrefix(path, "//"))
	}

	candidates := []xmldoc.Element{root}
	for _, seg := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if seg == "" {
			continue
		}
		var next []xmldoc.Element
		name, index, filter := parseSegment(seg)
		for _, c := range candidates {
			matches := c.FindAll(name)
			matches = applyFilter(matches, filter)
			if index > 0 {
				if index <= len(matches) {
					next = append(next, matches[index-1])
				}
				continue
			}
			next = append(next, matches...)
		}
		candidates = next
		if len(candidates) == 0 {
			return nil
		}
	}
	return candidates
}

// Find returns the first element FindAll would return.
func Find(root xmldoc.Element, path string) (xmldoc.Element, bool) {
	all := FindAll(root, path)
	if len(all) == 0 {
		return xmldoc.Element{}, false
	}
	return all[0], true
}

// Text evaluates path and returns a string: the text of a matched
// element, the value of an "@attr" segment, or "" with ok=false if
// nothing matched.
func Text(root xmldoc.Element, path string) (string, bool) {
	path = strings.TrimSpace(path)
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		last := path[i+1:]
		if strings.HasPrefix(last, "@") {
			e, ok := Find(root, path[:i])
			if !ok {
				return "", false
			}
			return e.Attribute(last[1:])
		}
		if last == "#text" {
			e, ok := Find(root, path[:i])
			if !ok {
				return "", false
			}
			return e.Text(), true
		}
	}
	e, ok := Find(root, path)
	if !ok {
		return "", false
	}
	return e.Text(), true
}

// Count evaluates path and returns how many elements it matched.
func Count(root xmldoc.Element, path string) int {
	return len(FindAll(root, path))
}

func findDeep(root xmldoc.Element, name string) []xmldoc.Element {
	var out []xmldoc.Element
	var walk func(e xmldoc.Element)
	walk = func(e xmldoc.Element) {
		if e.Name() == name {
			out = append(out, e)
		}
		for _, c := range e.Children() {
			if c.Kind == xmldoc.ElementNode {
				walk(e.WithHandle(c.Handle))
			}
		}
	}
	walk(root)
	return out
}

// segmentFilter is a parsed "[@key=val]" or "[@key!=val]" qualifier on
// a path segment. A positional "[n]" is returned by parseSegment as an
// index instead.
type segmentFilter struct {
	attr string
	op   string
	val  string
}

func parseSegment(seg string) (name string, index int, filter *segmentFilter) {
	i := strings.IndexByte(seg, '[')
	if i < 0 || !strings.HasSuffix(seg, "]") {
		return seg, 0, nil
	}
	name = seg[:i]
	inside := seg[i+1 : len(seg)-1]

	if n, err := strconv.Atoi(inside); err == nil {
		return name, n, nil
	}

	for _, op := range []string{"!=", "="} {
		if idx := strings.Index(inside, op); idx > 0 {
			key := strings.TrimSpace(inside[:idx])
			val := strings.TrimSpace(inside[idx+len(op):])
			val = strings.Trim(val, `'"`)
			key = strings.TrimPrefix(key, "@")
			return name, 0, &segmentFilter{attr: key, op: op, val: val}
		}
	}
	return name, 0, nil
}

func applyFilter(elems []xmldoc.Element, f *segmentFilter) []xmldoc.Element {
	if f == nil {
		return elems
	}
	var out []xmldoc.Element
	for _, e := range elems {
		v, ok := e.Attribute(f.attr)
		if !ok {
			continue
		}
		switch f.op {
		case "=":
			if v == f.val {
				out = append(out, e)
			}
		case "!=":
			if v != f.val {
				out = append(out, e)
			}
		}
	}
	return out
}

// ErrNotFound is returned by MustText-style helpers callers may build
// on top of Text/Find when a path matches nothing.
var ErrNotFound = fmt.Errorf("xquery: path matched nothing")
