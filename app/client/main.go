//go:build js && wasm
// +build js,wasm

package main

import (
	"syscall/js"

	"github.com/recera/dotrender/pkg/components/dotrender"
	"github.com/recera/dotrender/pkg/debug"
	"github.com/recera/dotrender/pkg/diagram"
	"github.com/recera/dotrender/pkg/layout/vizjs"
)

func main() {
	console := js.Global().Get("console")

	if js.Global().Get("DOTRENDER_DEBUG").Truthy() {
		debug.EnableLogging()
	}

	dotrender.Define(dotrender.Tag, vizjs.New(), diagram.WithObserver(func(ev diagram.Event) {
		if ev.Kind == diagram.EventFailed {
			console.Call("warn", "[dot-render] render failed:", ev.Err.Error())
		}
	}))
	console.Call("log", "[dot-render] element registered")

	// Keep the WASM runtime alive
	select {}
}
