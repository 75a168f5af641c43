//go:build !js || !wasm

package graphviz

import (
	"context"
	"errors"
	"testing"

	"github.com/recera/dotrender/pkg/diagram"
	"github.com/recera/dotrender/pkg/vdom"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(context.Background())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRenderer_Render(t *testing.T) {
	r := newRenderer(t)

	g, err := r.Render(context.Background(), "digraph G { a -> b; b -> c }")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if g.Root().Tag != "svg" {
		t.Fatalf("root tag = %q, want svg", g.Root().Tag)
	}
	size, err := g.IntrinsicSize()
	if err != nil {
		t.Fatalf("IntrinsicSize() error: %v", err)
	}
	if size.Width <= 0 || size.Height <= 0 {
		t.Errorf("expected positive size, got %v", size)
	}
	// A vertical chain is taller than it is wide
	if size.Height <= size.Width {
		t.Errorf("expected tall graphic, got %v", size)
	}
}

func TestRenderer_Errors(t *testing.T) {
	r := newRenderer(t)

	if _, err := r.Render(context.Background(), "   "); !errors.Is(err, ErrEmpty) {
		t.Errorf("blank input: expected ErrEmpty, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, "digraph { a }"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context: expected context.Canceled, got %v", err)
	}
}

func TestRenderer_WithElement(t *testing.T) {
	r := newRenderer(t)

	// Superseded requests may report after the applied one; keep the newest
	var last diagram.Event
	display := diagram.DisplayFunc(func(*vdom.VNode) error { return nil })
	el := diagram.New(r, display, diagram.WithObserver(func(ev diagram.Event) {
		if ev.Seq >= last.Seq {
			last = ev
		}
	}))
	defer el.Close()

	el.SetWidth(50)
	el.SetHeight(50)
	el.SetContent("digraph { a -> b }")
	el.Wait()

	if last.Seq != el.Seq() {
		t.Fatalf("newest event seq = %d, want %d", last.Seq, el.Seq())
	}
	if last.Kind != diagram.EventApplied {
		t.Fatalf("last event = %v (%v), want applied", last.Kind, last.Err)
	}
	if last.Size.Width > 50 || last.Size.Height > 50 {
		t.Errorf("diagram does not fit 50x50: %v", last.Size)
	}
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in      string
		want    Layout
		wantErr bool
	}{
		{in: "", want: LayoutDot},
		{in: "DOT", want: LayoutDot},
		{in: "neato", want: LayoutNeato},
		{in: "circo", want: LayoutCirco},
		{in: "sfdp-ish", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLayout(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLayout(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLayout(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
