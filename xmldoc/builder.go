package xmldoc

// Builder is a small fluent wrapper around the Element mutation API for
// constructing a subtree by hand without checking an error after every
// call. The first error encountered is latched and returned by
// BuildInto/Err; every method after that becomes a no-op.
type Builder struct {
	doc *Document
	cur Element
	err error
}

// NewBuilder starts a builder whose root node is a detached element
// named name, not yet attached anywhere. Attach it into a document with
// BuildInto.
func NewBuilder(name string, doc *Document) *Builder {
	e, err := doc.CreateElement(name)
	if err != nil {
		return &Builder{doc: doc, err: err}
	}
	return &Builder{doc: doc, cur: e}
}

// Attr sets an attribute on the builder's current element.
func (b *Builder) Attr(name, value string) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.cur.SetAttribute(name, value)
	return b
}

// Child appends an arbitrary, already-constructed ChildNode (typically
// NewTextChild/NewCDATAChild/NewCommentChild/NewPIChild) to the current
// element.
func (b *Builder) Child(node ChildNode) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.cur.PushChild(node)
	return b
}

// Element appends a new child element named name and runs fn against a
// builder positioned on it, then returns to the parent — no matching
// "end" call needed.
func (b *Builder) Element(name string, fn func(*Builder)) *Builder {
	if b.err != nil {
		return b
	}
	child, err := b.doc.CreateElement(name)
	if err != nil {
		b.err = err
		return b
	}
	if err := b.cur.PushChild(NewElementChild(child.Handle)); err != nil {
		b.err = err
		return b
	}
	childBuilder := &Builder{doc: b.doc, cur: child}
	if fn != nil {
		fn(childBuilder)
	}
	if childBuilder.err != nil {
		b.err = childBuilder.err
	}
	return b
}

// Err returns the first error the builder encountered, if any.
func (b *Builder) Err() error { return b.err }

// BuildInto attaches the builder's element as a child of parent and
// returns it, or returns the first error the builder accumulated along
// the way. To make the builder's element the document root instead,
// use BuildRoot.
func (b *Builder) BuildInto(parent Element) (Element, error) {
	if b.err != nil {
		return Element{}, b.err
	}
	if err := parent.PushChild(NewElementChild(b.cur.Handle)); err != nil {
		return Element{}, err
	}
	return b.cur, nil
}

// BuildRoot attaches the builder's element as the document's root
// element instead of as a child of another element.
func (b *Builder) BuildRoot() (*Document, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.doc.SetRootElement(b.cur); err != nil {
		return nil, err
	}
	return b.doc, nil
}
