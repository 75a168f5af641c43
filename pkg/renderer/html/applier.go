package html

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/recera/dotrender/pkg/vdom"
)

// voidElements are HTML elements that cannot have children
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// booleanAttributes are HTML attributes that are boolean flags
var booleanAttributes = map[string]bool{
	"checked":  true,
	"disabled": true,
	"hidden":   true,
	"defer":    true,
	"async":    true,
}

// urlAttributes may carry a javascript: URL
var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"xlink:href": true,
}

// Applier renders VNodes to markup. Elements inside an <svg> subtree are
// written XML style, so childless elements self-close.
type Applier struct {
	w   io.Writer
	err error
}

// NewApplier creates a new markup applier
func NewApplier(w io.Writer) *Applier {
	return &Applier{w: w}
}

// Apply renders a VNode tree
func (a *Applier) Apply(node *vdom.VNode) error {
	if node == nil {
		return nil
	}
	a.renderNode(node, false)
	return a.err
}

// write helper that tracks errors
func (a *Applier) write(s string) {
	if a.err != nil {
		return
	}
	_, a.err = io.WriteString(a.w, s)
}

func (a *Applier) renderNode(node *vdom.VNode, inSVG bool) {
	if node == nil || a.err != nil {
		return
	}

	switch node.Kind {
	case vdom.KindText:
		a.write(html.EscapeString(node.Text))
	case vdom.KindElement:
		a.renderElement(node, inSVG || node.Tag == "svg")
	default:
		a.err = fmt.Errorf("unknown node kind: %v", node.Kind)
	}
}

func (a *Applier) renderElement(node *vdom.VNode, inSVG bool) {
	a.write("<")
	a.write(node.Tag)
	a.renderAttributes(node.Props)

	if inSVG && len(node.Kids) == 0 {
		a.write("/>")
		return
	}

	a.write(">")

	if !inSVG && voidElements[node.Tag] {
		return
	}

	// HTML script and style content is written unescaped; inside svg they
	// are foreign elements and their text is escaped like any other
	raw := !inSVG && (node.Tag == "script" || node.Tag == "style")
	for i := range node.Kids {
		if raw && node.Kids[i].IsText() {
			a.write(node.Kids[i].Text)
			continue
		}
		a.renderNode(&node.Kids[i], inSVG)
	}

	a.write("</")
	a.write(node.Tag)
	a.write(">")
}

func (a *Applier) renderAttributes(props vdom.Props) {
	if len(props) == 0 {
		return
	}

	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := props[key]

		if booleanAttributes[key] {
			if v, ok := value.(bool); ok {
				if v {
					a.write(" ")
					a.write(key)
				}
				continue
			}
		}

		valueStr := vdom.FormatValue(value)
		if urlAttributes[key] && strings.HasPrefix(strings.ToLower(strings.TrimSpace(valueStr)), "javascript:") {
			valueStr = "#"
		}

		a.write(" ")
		a.write(key)
		a.write(`="`)
		a.write(html.EscapeString(valueStr))
		a.write(`"`)
	}
}

// RenderToString is a convenience function to render a VNode to a string
func RenderToString(node *vdom.VNode) (string, error) {
	var buf strings.Builder
	if err := NewApplier(&buf).Apply(node); err != nil {
		return "", err
	}
	return buf.String(), nil
}
