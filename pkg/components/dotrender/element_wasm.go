//go:build js && wasm
// +build js,wasm

package dotrender

import (
	"math"
	"strconv"
	"syscall/js"

	"github.com/recera/dotrender/pkg/diagram"
	"github.com/recera/dotrender/pkg/renderer/dom"
)

// classFactory builds a custom element class whose constructor hands the
// new instance to mount.
const classFactory = `return class extends HTMLElement {
	constructor() {
		super();
		mount(this);
	}
}`

// Define registers tag as a custom element backed by a diagram element
// rendering through r. Defining the same tag twice is a no-op.
func Define(tag string, r diagram.Renderer, opts ...diagram.Option) {
	registry := js.Global().Get("customElements")
	if registry.Call("get", tag).Truthy() {
		return
	}

	mount := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			Mount(args[0], r, opts...)
		}
		return nil
	})
	class := js.Global().Get("Function").New("mount", classFactory).Invoke(mount)
	registry.Call("define", tag, class)
}

// Mount turns node into a diagram host: assigning its width, height and
// content properties drives a diagram.Element. Values assigned before
// mounting are replayed through the new setters.
func Mount(node js.Value, r diagram.Renderer, opts ...diagram.Option) *diagram.Element {
	el := diagram.New(r, dom.NewHost(node), opts...)

	defineProperty(node, "width",
		func() interface{} { return el.Width() },
		func(v js.Value) { el.SetWidth(toFloat(v)) })
	defineProperty(node, "height",
		func() interface{} { return el.Height() },
		func(v js.Value) { el.SetHeight(toFloat(v)) })
	defineProperty(node, "content",
		func() interface{} { return el.Content() },
		func(v js.Value) { el.SetContent(toString(v)) })

	return el
}

func defineProperty(node js.Value, name string, get func() interface{}, set func(js.Value)) {
	object := js.Global().Get("Object")

	// Upgrade pattern: a value set on the plain node shadows our accessor
	var pending js.Value
	hasPending := node.Call("hasOwnProperty", name).Bool()
	if hasPending {
		pending = node.Get(name)
		js.Global().Get("Reflect").Call("deleteProperty", node, name)
	}

	descriptor := object.New()
	descriptor.Set("configurable", true)
	descriptor.Set("enumerable", true)
	descriptor.Set("get", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return get()
	}))
	descriptor.Set("set", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			set(args[0])
		}
		return nil
	}))
	object.Call("defineProperty", node, name, descriptor)

	if hasPending {
		set(pending)
	}
}

func toFloat(v js.Value) float64 {
	switch v.Type() {
	case js.TypeNumber:
		return v.Float()
	case js.TypeString:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func toString(v js.Value) string {
	switch v.Type() {
	case js.TypeString:
		return v.String()
	case js.TypeUndefined, js.TypeNull:
		return ""
	default:
		return v.Call("toString").String()
	}
}
