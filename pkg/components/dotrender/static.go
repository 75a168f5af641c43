// Package dotrender binds the diagram element to the <dot-render> tag.
package dotrender

import (
	"fmt"

	"github.com/recera/dotrender/pkg/diagram"
	"github.com/recera/dotrender/pkg/renderer/html"
	"github.com/recera/dotrender/pkg/vdom"
)

// Tag is the default tag name of the element
const Tag = "dot-render"

// Static renders spec once and returns the <dot-render> host node with the
// fitted graphic as its child. It is used for server-side output where no
// browser is available to run the element.
func Static(r diagram.Renderer, spec diagram.Spec, opts ...diagram.Option) (*vdom.VNode, diagram.Size, error) {
	target := html.NewTarget(Tag)

	// Outcomes of superseded requests may arrive late; keep the newest
	var result diagram.Event
	opts = append(opts, diagram.WithObserver(func(ev diagram.Event) {
		if ev.Seq >= result.Seq {
			result = ev
		}
	}))

	el := diagram.New(r, target, opts...)
	el.SetWidth(spec.Width)
	el.SetHeight(spec.Height)
	el.SetContent(spec.Content)
	el.Wait()
	el.Close()

	if result.Kind != diagram.EventApplied {
		if result.Err == nil {
			return nil, diagram.Size{}, fmt.Errorf("render %d ended %s", result.Seq, result.Kind)
		}
		return nil, diagram.Size{}, result.Err
	}
	return vdom.NewElement(Tag, nil, target.Child()), result.Size, nil
}
