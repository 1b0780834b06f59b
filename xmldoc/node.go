package xmldoc

// NodeKind tags the variant held by a ChildNode.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
	CDATANode
	CommentNode
	PINode
	DocTypeNode
)

func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CDATANode:
		return "CDATA"
	case CommentNode:
		return "Comment"
	case PINode:
		return "PI"
	case DocTypeNode:
		return "DocType"
	default:
		return "Unknown"
	}
}

// ChildNode is one entry in an element's (or the document's) child
// sequence. It is a small tagged union: Handle is meaningful only for
// ElementNode, Text carries the payload for every other kind (the
// target+data of a PI is stored pre-joined as "target data").
type ChildNode struct {
	Kind   NodeKind
	Handle Handle
	Text   string
}

// NewElementChild wraps an already-allocated element handle as a child
// reference. It does not attach the element anywhere; use
// Element.PushChild or Element.InsertChild for that.
func NewElementChild(h Handle) ChildNode { return ChildNode{Kind: ElementNode, Handle: h} }

func NewTextChild(s string) ChildNode { return ChildNode{Kind: TextNode, Text: s} }

func NewCDATAChild(s string) ChildNode { return ChildNode{Kind: CDATANode, Text: s} }

func NewCommentChild(s string) ChildNode { return ChildNode{Kind: CommentNode, Text: s} }

// NewPIChild builds a processing-instruction child node from its target
// and instruction data.
func NewPIChild(target, data string) ChildNode {
	if data == "" {
		return ChildNode{Kind: PINode, Text: target}
	}
	return ChildNode{Kind: PINode, Text: target + " " + data}
}

func NewDocTypeChild(s string) ChildNode { return ChildNode{Kind: DocTypeNode, Text: s} }
