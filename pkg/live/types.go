package live

// Message types exchanged with preview clients
const (
	// TypeHello is sent once per connection with the session id
	TypeHello = "hello"
	// TypeResize is sent by clients when their diagram box changes size
	TypeResize = "resize"
	// TypeRender carries the fitted SVG of an applied render
	TypeRender = "render"
	// TypeError reports a failed render; the client keeps its diagram
	TypeError = "error"
)

// Message is the JSON frame of the live preview protocol
type Message struct {
	Type    string  `json:"type"`
	Session string  `json:"session,omitempty"`
	Seq     uint64  `json:"seq,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	SVG     string  `json:"svg,omitempty"`
	Error   string  `json:"error,omitempty"`
}
