//go:build !js || !wasm

// Package graphviz renders DOT descriptions with Graphviz compiled to
// WebAssembly, for use outside the browser.
package graphviz

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	gv "github.com/goccy/go-graphviz"

	"github.com/recera/dotrender/pkg/diagram"
)

// ErrEmpty is returned for a blank graph description
var ErrEmpty = errors.New("empty graph description")

// Layout names a Graphviz layout engine
type Layout = gv.Layout

// Layout engines accepted by WithLayout
const (
	LayoutDot   = gv.DOT
	LayoutNeato = gv.NEATO
	LayoutFdp   = gv.FDP
	LayoutCirco = gv.CIRCO
	LayoutTwopi = gv.TWOPI
)

// ParseLayout maps a layout engine name such as "neato" to a Layout
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dot":
		return LayoutDot, nil
	case "neato":
		return LayoutNeato, nil
	case "fdp":
		return LayoutFdp, nil
	case "circo":
		return LayoutCirco, nil
	case "twopi":
		return LayoutTwopi, nil
	default:
		return "", fmt.Errorf("unknown layout %q", name)
	}
}

// Renderer implements diagram.Renderer with go-graphviz.
// A single Graphviz instance is not safe for concurrent use, so renders
// are serialized.
type Renderer struct {
	mu     sync.Mutex
	gv     *gv.Graphviz
	layout Layout
}

// Option configures a Renderer
type Option func(*Renderer)

// WithLayout selects the layout engine (dot by default)
func WithLayout(l Layout) Option {
	return func(r *Renderer) { r.layout = l }
}

// New creates a Renderer. Close it to release the Graphviz runtime.
func New(ctx context.Context, opts ...Option) (*Renderer, error) {
	g, err := gv.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start graphviz: %w", err)
	}
	r := &Renderer{gv: g, layout: gv.DOT}
	for _, opt := range opts {
		opt(r)
	}
	g.SetLayout(r.layout)
	return r, nil
}

// Render lays out content and returns the resulting SVG graphic
func (r *Renderer) Render(ctx context.Context, content string) (*diagram.Graphic, error) {
	svg, err := r.RenderSVG(ctx, content)
	if err != nil {
		return nil, err
	}
	return diagram.ParseGraphic(bytes.NewReader(svg))
}

// RenderSVG lays out content and returns the raw SVG document
func (r *Renderer) RenderSVG(ctx context.Context, content string) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmpty
	}

	// Parsing shares the Graphviz runtime too
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	graph, err := gv.ParseBytes([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse graph: %w", err)
	}
	if graph == nil {
		return nil, fmt.Errorf("failed to parse graph: no graph in input")
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := r.gv.Render(ctx, graph, gv.SVG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.Bytes(), nil
}

// Close releases the Graphviz runtime
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gv.Close()
}
