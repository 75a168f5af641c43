//go:build js && wasm
// +build js,wasm

package dom

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/recera/dotrender/pkg/vdom"
)

// xlinkNamespace is used for xlink:* attributes on SVG elements
const xlinkNamespace = "http://www.w3.org/1999/xlink"

// Host is a browser element whose children are owned by a diagram element
type Host struct {
	document js.Value
	node     js.Value
}

// NewHost wraps an existing DOM node
func NewHost(node js.Value) *Host {
	return &Host{
		document: js.Global().Get("document"),
		node:     node,
	}
}

// Node returns the wrapped DOM node
func (h *Host) Node() js.Value {
	return h.node
}

// Replace removes every child of the host and appends node as the only one
func (h *Host) Replace(node *vdom.VNode) error {
	if !h.node.Truthy() {
		return fmt.Errorf("host element is not attached")
	}
	if node == nil {
		return fmt.Errorf("replace with nil node")
	}

	child, err := h.createTree(node, "")
	if err != nil {
		return err
	}

	for first := h.node.Get("firstChild"); !first.IsNull(); first = h.node.Get("firstChild") {
		h.node.Call("removeChild", first)
	}
	h.node.Call("appendChild", child)
	return nil
}

// createTree builds a DOM tree from a VNode. Elements below an <svg> are
// created in the SVG namespace.
func (h *Host) createTree(vnode *vdom.VNode, ns string) (js.Value, error) {
	switch vnode.Kind {
	case vdom.KindText:
		return h.document.Call("createTextNode", vnode.Text), nil

	case vdom.KindElement:
		if vnode.Tag == "svg" {
			ns = vdom.SVGNamespace
		}

		var elem js.Value
		if ns != "" {
			elem = h.document.Call("createElementNS", ns, vnode.Tag)
		} else {
			elem = h.document.Call("createElement", vnode.Tag)
		}

		for key, value := range vnode.Props {
			// Namespace declarations are implied by createElementNS
			if key == "xmlns" || strings.HasPrefix(key, "xmlns:") {
				continue
			}
			val := vdom.FormatValue(value)
			if strings.HasPrefix(key, "xlink:") {
				elem.Call("setAttributeNS", xlinkNamespace, key, val)
				continue
			}
			elem.Call("setAttribute", key, val)
		}

		for i := range vnode.Kids {
			child, err := h.createTree(&vnode.Kids[i], ns)
			if err != nil {
				return js.Undefined(), err
			}
			elem.Call("appendChild", child)
		}
		return elem, nil

	default:
		return js.Undefined(), fmt.Errorf("unknown node kind: %v", vnode.Kind)
	}
}
