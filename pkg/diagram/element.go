// Package diagram implements a diagram element that renders a graph
// description through an external layout renderer and shrinks the result to
// fit a width x height box.
package diagram

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/recera/dotrender/pkg/vdom"
)

// ErrClosed is reported for renders attempted after Close
var ErrClosed = errors.New("diagram element closed")

// Renderer turns a graph description into a Graphic. Implementations may
// block; the element always calls them off the setter's goroutine.
type Renderer interface {
	Render(ctx context.Context, content string) (*Graphic, error)
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc func(ctx context.Context, content string) (*Graphic, error)

// Render calls f
func (f RendererFunc) Render(ctx context.Context, content string) (*Graphic, error) {
	return f(ctx, content)
}

// Display is the element's visible output. Replace must drop every current
// child and attach node as the only one. It must not call back into the
// Element's setters.
type Display interface {
	Replace(node *vdom.VNode) error
}

// DisplayFunc adapts a function to the Display interface
type DisplayFunc func(node *vdom.VNode) error

// Replace calls f
func (f DisplayFunc) Replace(node *vdom.VNode) error {
	return f(node)
}

// Spec is a snapshot of the element's three properties
type Spec struct {
	Width   float64
	Height  float64
	Content string
}

// EventKind classifies a finished render request
type EventKind int

const (
	// EventApplied means the graphic replaced the displayed one
	EventApplied EventKind = iota
	// EventFailed means rendering or displaying failed; the display is unchanged
	EventFailed
	// EventStale means a newer request was issued before this one finished
	EventStale
)

func (k EventKind) String() string {
	switch k {
	case EventApplied:
		return "applied"
	case EventFailed:
		return "failed"
	case EventStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Event describes the outcome of one render request
type Event struct {
	Seq  uint64
	Kind EventKind
	Spec Spec
	// Size is the displayed size, set for EventApplied
	Size Size
	Err  error
}

// Observer receives an Event for every finished render request. It is called
// from the render goroutine and must not block for long. Events arrive in
// completion order: a superseded request may report EventStale after a newer
// one was applied, so compare Seq to find the latest outcome.
type Observer func(Event)

// Option configures an Element
type Option func(*Element)

// WithObserver registers an observer for render outcomes
func WithObserver(o Observer) Option {
	return func(e *Element) { e.observer = o }
}

// WithLogger overrides the package logger for one element
func WithLogger(l *zap.Logger) Option {
	return func(e *Element) { e.log = l }
}

// prop is a property that is unequal to everything until first assigned
type prop[T comparable] struct {
	value T
	set   bool
}

func (p *prop[T]) assign(v T) bool {
	if p.set && p.value == v {
		return false
	}
	p.value = v
	p.set = true
	return true
}

// Element displays a diagram described by its content property, scaled down
// to fit inside width x height. Every property change starts a new render;
// only the most recently issued render is ever displayed.
type Element struct {
	renderer Renderer
	display  Display
	observer Observer
	log      *zap.Logger

	mu      sync.Mutex
	width   prop[float64]
	height  prop[float64]
	content prop[string]
	seq     uint64
	cancel  context.CancelFunc
	closed  bool

	// applyMu serializes the seq check with Display.Replace
	applyMu sync.Mutex
	wg      sync.WaitGroup
}

// New creates an element rendering through r onto d
func New(r Renderer, d Display, opts ...Option) *Element {
	e := &Element{
		renderer: r,
		display:  d,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = Logger()
	}
	return e
}

// SetWidth sets the available box width in display units
func (e *Element) SetWidth(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.width.assign(v) {
		e.renderLocked()
	}
}

// SetHeight sets the available box height in display units
func (e *Element) SetHeight(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.height.assign(v) {
		e.renderLocked()
	}
}

// SetContent sets the graph description
func (e *Element) SetContent(v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.content.assign(v) {
		e.renderLocked()
	}
}

// Width returns the stored width
func (e *Element) Width() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width.value
}

// Height returns the stored height
func (e *Element) Height() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.height.value
}

// Content returns the stored graph description
func (e *Element) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.content.value
}

// Spec returns a snapshot of all three properties
func (e *Element) Spec() Spec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.specLocked()
}

// Seq returns the sequence number of the most recently issued render
func (e *Element) Seq() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}

// Wait blocks until every issued render has finished
func (e *Element) Wait() {
	e.wg.Wait()
}

// Close cancels any in-flight render and waits for it to return. Setters
// keep storing values afterwards but no longer render.
func (e *Element) Close() {
	e.mu.Lock()
	e.closed = true
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *Element) specLocked() Spec {
	return Spec{
		Width:   e.width.value,
		Height:  e.height.value,
		Content: e.content.value,
	}
}

// renderLocked issues a new render request for the current properties.
// Callers hold e.mu.
func (e *Element) renderLocked() {
	if e.closed {
		e.log.Debug("render skipped", zap.Error(ErrClosed))
		return
	}

	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.seq++

	seq := e.seq
	spec := e.specLocked()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		e.run(ctx, seq, spec)
	}()
}

func (e *Element) run(ctx context.Context, seq uint64, spec Spec) {
	log := e.log.With(zap.Uint64("seq", seq))

	graphic, err := e.render(ctx, spec.Content)

	e.applyMu.Lock()
	defer e.applyMu.Unlock()

	if !e.isLatest(seq) {
		log.Debug("discarding stale render")
		e.notify(Event{Seq: seq, Kind: EventStale, Spec: spec})
		return
	}
	if err != nil {
		log.Warn("render failed, keeping current diagram", zap.Error(err))
		e.notify(Event{Seq: seq, Kind: EventFailed, Spec: spec, Err: err})
		return
	}

	intrinsic, err := graphic.IntrinsicSize()
	if err != nil {
		log.Warn("rendered graphic has no usable size", zap.Error(err))
		e.notify(Event{Seq: seq, Kind: EventFailed, Spec: spec, Err: err})
		return
	}

	size := Fit(intrinsic, Size{Width: spec.Width, Height: spec.Height})
	if err := e.display.Replace(graphic.Resize(size)); err != nil {
		log.Warn("display replace failed", zap.Error(err))
		e.notify(Event{Seq: seq, Kind: EventFailed, Spec: spec, Err: err})
		return
	}

	log.Debug("diagram displayed",
		zap.Stringer("intrinsic", intrinsic),
		zap.Stringer("size", size))
	e.notify(Event{Seq: seq, Kind: EventApplied, Spec: spec, Size: size})
}

// render calls the renderer, turning a panic into an error
func (e *Element) render(ctx context.Context, content string) (g *Graphic, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	g, err = e.renderer.Render(ctx, content)
	if err == nil && g == nil {
		err = ErrNoSize
	}
	return g, err
}

func (e *Element) isLatest(seq uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return seq == e.seq && !e.closed
}

func (e *Element) notify(ev Event) {
	if e.observer != nil {
		e.observer(ev)
	}
}
