package xmldoc

// Handle is an opaque, document-local reference to an element. Handles
// are dense, monotonically increasing indices into a Document's arena;
// they stay valid for the lifetime of the Document that produced them
// and are never reused, even after the element they name is detached.
type Handle uint32

// RootHandle is the sentinel handle for the container root: the
// implicit parent of top-level comments and processing instructions and
// of the document's single root element (a parsed doctype is kept in
// Document.DocType instead). It is not itself an Element a caller
// can name or mutate through the public API.
const RootHandle Handle = 0
