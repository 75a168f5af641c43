//go:build !js || !wasm
// +build !js !wasm

package dom

import (
	"errors"

	"github.com/recera/dotrender/pkg/vdom"
)

// ErrUnsupported is returned by the host outside WASM builds
var ErrUnsupported = errors.New("DOM host is only available in WASM builds")

// Host is a browser element (stub for non-WASM builds). Hosts wrap a
// js.Value, so outside WASM only the zero value exists.
type Host struct{}

// Replace always fails outside the browser
func (h *Host) Replace(node *vdom.VNode) error {
	return ErrUnsupported
}
