package diagram

import (
	"fmt"
	"io"

	"github.com/recera/dotrender/pkg/vdom"
)

// Graphic is a rendered vector graphic as produced by a Renderer.
// Its root carries width and height attributes in points.
type Graphic struct {
	root *vdom.VNode
}

// NewGraphic wraps an <svg> root node
func NewGraphic(root *vdom.VNode) *Graphic {
	return &Graphic{root: root}
}

// ParseGraphic reads renderer SVG output into a Graphic
func ParseGraphic(r io.Reader) (*Graphic, error) {
	root, err := vdom.ParseSVG(r)
	if err != nil {
		return nil, err
	}
	return NewGraphic(root), nil
}

// Root returns the underlying node tree
func (g *Graphic) Root() *vdom.VNode {
	return g.root
}

// IntrinsicSize returns the graphic's own size converted to display units
func (g *Graphic) IntrinsicSize() (Size, error) {
	if g == nil || g.root == nil {
		return Size{}, ErrNoSize
	}

	w, ok := g.root.Attr("width")
	if !ok {
		return Size{}, fmt.Errorf("%w: missing width", ErrNoSize)
	}
	h, ok := g.root.Attr("height")
	if !ok {
		return Size{}, fmt.Errorf("%w: missing height", ErrNoSize)
	}

	wpt, err := ParsePoints(w)
	if err != nil {
		return Size{}, err
	}
	hpt, err := ParsePoints(h)
	if err != nil {
		return Size{}, err
	}

	return Size{Width: ToDisplay(wpt), Height: ToDisplay(hpt)}, nil
}

// Resize returns the root node with unit-less width and height attributes
// set to size. The receiver is left untouched.
func (g *Graphic) Resize(size Size) *vdom.VNode {
	return g.root.WithAttr("width", size.Width).WithAttr("height", size.Height)
}
