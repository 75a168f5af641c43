package html

import (
	"sync"

	"github.com/recera/dotrender/pkg/vdom"
)

// Target is an in-memory host element. It keeps at most one child and
// renders it to markup on demand, which is how diagrams are displayed
// outside a browser.
type Target struct {
	mu       sync.RWMutex
	tag      string
	child    *vdom.VNode
	replaced int
}

// NewTarget creates a host element with the given tag name
func NewTarget(tag string) *Target {
	return &Target{tag: tag}
}

// Replace drops the current child and attaches node as the sole child
func (t *Target) Replace(node *vdom.VNode) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.child = node
	t.replaced++
	return nil
}

// Child returns the current child, or nil before the first Replace
func (t *Target) Child() *vdom.VNode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.child
}

// Replaced reports how many times the child has been swapped
func (t *Target) Replaced() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.replaced
}

// Markup renders the current child only
func (t *Target) Markup() (string, error) {
	child := t.Child()
	if child == nil {
		return "", nil
	}
	return RenderToString(child)
}

// OuterMarkup renders the host element with its child
func (t *Target) OuterMarkup() (string, error) {
	child := t.Child()
	return RenderToString(vdom.NewElement(t.tag, nil, child))
}
