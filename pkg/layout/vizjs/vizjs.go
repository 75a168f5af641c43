//go:build js && wasm

// Package vizjs renders DOT descriptions with the viz.js instance loaded on
// the page, for use inside the browser.
package vizjs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall/js"

	"github.com/recera/dotrender/pkg/diagram"
)

// ErrUnavailable is returned when no viz.js instance is present
var ErrUnavailable = errors.New("viz.js is not loaded")

// Renderer implements diagram.Renderer on top of a viz.js instance
type Renderer struct {
	viz js.Value
}

// New uses the global window.viz instance
func New() *Renderer {
	return &Renderer{viz: js.Global().Get("viz")}
}

// Render asks viz.js for an SVG string and parses it into a Graphic
func (r *Renderer) Render(ctx context.Context, content string) (*diagram.Graphic, error) {
	if !r.viz.Truthy() {
		return nil, ErrUnavailable
	}

	svg, err := await(ctx, r.viz.Call("renderString", content))
	if err != nil {
		return nil, err
	}
	return diagram.ParseGraphic(strings.NewReader(svg.String()))
}

// await waits for a JS promise to settle or ctx to end
func await(ctx context.Context, promise js.Value) (js.Value, error) {
	type settled struct {
		value js.Value
		err   error
	}
	done := make(chan settled, 1)

	// The callbacks release themselves once the promise settles, which may
	// be after ctx is done.
	var onResolve, onReject js.Func
	release := func() {
		onResolve.Release()
		onReject.Release()
	}

	onResolve = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		done <- settled{value: v}
		release()
		return nil
	})
	onReject = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		msg := "promise rejected"
		if len(args) > 0 && args[0].Truthy() {
			if m := args[0].Get("message"); m.Truthy() {
				msg = m.String()
			} else {
				msg = args[0].Call("toString").String()
			}
		}
		done <- settled{err: fmt.Errorf("viz.js: %s", msg)}
		release()
		return nil
	})
	promise.Call("then", onResolve, onReject)

	select {
	case s := <-done:
		return s.value, s.err
	case <-ctx.Done():
		return js.Undefined(), ctx.Err()
	}
}
