package vdom

// VKind represents the type of virtual node
type VKind uint8

const (
	// KindElement represents an element node
	KindElement VKind = iota
	// KindText represents a text node
	KindText
)

// Props holds the attributes of an element node.
// Namespaced attributes keep their prefix, e.g. "xlink:href".
type Props map[string]any

// VNode is a node of a rendered vector graphic or a host placeholder.
// Treat a VNode as immutable once it has been handed to a Display;
// derive modified copies with Clone or WithAttr.
type VNode struct {
	// Kind determines the type of this node
	Kind VKind

	// Tag is the element tag name, including any namespace prefix
	Tag string

	// Props contains the element attributes
	Props Props

	// Kids contains child nodes
	Kids []VNode

	// Text content (only used when Kind == KindText)
	Text string
}

// NewElement creates a new element VNode
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	kids := make([]VNode, 0, len(children))
	for _, child := range children {
		if child != nil {
			kids = append(kids, *child)
		}
	}

	return &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: props,
		Kids:  kids,
	}
}

// NewText creates a new text VNode
func NewText(text string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: text,
	}
}

// IsElement returns true if this is an element node
func (v VNode) IsElement() bool {
	return v.Kind == KindElement
}

// IsText returns true if this is a text node
func (v VNode) IsText() bool {
	return v.Kind == KindText
}

// Attr returns the attribute value formatted as a string.
func (v VNode) Attr(key string) (string, bool) {
	if v.Props == nil {
		return "", false
	}
	val, ok := v.Props[key]
	if !ok {
		return "", false
	}
	if s, ok := val.(string); ok {
		return s, true
	}
	return FormatValue(val), true
}

// Clone returns a deep copy of the node tree.
func (v *VNode) Clone() *VNode {
	if v == nil {
		return nil
	}
	out := &VNode{
		Kind: v.Kind,
		Tag:  v.Tag,
		Text: v.Text,
	}
	if v.Props != nil {
		out.Props = make(Props, len(v.Props))
		for k, val := range v.Props {
			out.Props[k] = val
		}
	}
	if v.Kids != nil {
		out.Kids = make([]VNode, len(v.Kids))
		for i := range v.Kids {
			out.Kids[i] = *v.Kids[i].Clone()
		}
	}
	return out
}

// WithAttr returns a copy of the node with key set to value.
// Children are shared with the receiver.
func (v *VNode) WithAttr(key string, value any) *VNode {
	out := *v
	out.Props = make(Props, len(v.Props)+1)
	for k, val := range v.Props {
		out.Props[k] = val
	}
	out.Props[key] = value
	return &out
}
