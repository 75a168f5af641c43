package diagram

import "fmt"

// PanicError wraps a panic raised inside a Renderer
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("renderer panicked: %v", e.Value)
}
