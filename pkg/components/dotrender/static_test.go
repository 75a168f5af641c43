package dotrender

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/recera/dotrender/pkg/diagram"
	"github.com/recera/dotrender/pkg/renderer/html"
	"github.com/recera/dotrender/pkg/vdom"
)

func fixedRenderer(wpt, hpt float64) diagram.RendererFunc {
	return func(_ context.Context, content string) (*diagram.Graphic, error) {
		if content == "" {
			return nil, errors.New("empty")
		}
		return diagram.NewGraphic(vdom.NewElement("svg", vdom.Props{
			"width":  fmt.Sprintf("%gpt", wpt),
			"height": fmt.Sprintf("%gpt", hpt),
		})), nil
	}
}

func TestStatic(t *testing.T) {
	node, size, err := Static(fixedRenderer(100, 50), diagram.Spec{
		Width:   66.5,
		Height:  400,
		Content: "digraph { a }",
	})
	if err != nil {
		t.Fatalf("Static() error: %v", err)
	}

	// 100pt = 133 units wide, box is half of that
	if size.Width != 66.5 || size.Height != 33.25 {
		t.Errorf("size = %v, want 66.5x33.25", size)
	}

	got, err := html.RenderToString(node)
	if err != nil {
		t.Fatalf("RenderToString() error: %v", err)
	}
	want := `<dot-render><svg height="33.25" width="66.5"/></dot-render>`
	if got != want {
		t.Errorf("markup = %q, want %q", got, want)
	}
}

func TestStatic_Failure(t *testing.T) {
	_, _, err := Static(fixedRenderer(1, 1), diagram.Spec{Width: 10, Height: 10})
	if err == nil || err.Error() != "empty" {
		t.Errorf("expected renderer error, got %v", err)
	}
}
