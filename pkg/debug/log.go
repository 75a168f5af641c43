//go:build js && wasm
// +build js,wasm

package debug

import (
	"strings"
	"syscall/js"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/recera/dotrender/pkg/diagram"
)

// consoleSink writes zap output to the browser console
type consoleSink struct{}

func (consoleSink) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("log", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func (consoleSink) Sync() error { return nil }

// EnableLogging routes diagram debug logging to the browser console
func EnableLogging() {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), consoleSink{}, zapcore.DebugLevel)
	diagram.SetLogger(zap.New(core).Named("dot-render"))
}
