package diagram

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/recera/dotrender/pkg/vdom"
)

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	l := zap.NewExample()
	SetLogger(l)
	if Logger() != l {
		t.Error("Logger() did not return the configured logger")
	}

	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger() returned nil after SetLogger(nil)")
	}

	// Elements created after a nil logger must still render
	r := RendererFunc(func(context.Context, string) (*Graphic, error) {
		return graphicOf(10, 10, "x"), nil
	})
	el := New(r, DisplayFunc(func(*vdom.VNode) error { return nil }))
	el.SetContent("x")
	el.Wait()
	el.Close()
}

func TestSetLogger_Concurrent(t *testing.T) {
	defer SetLogger(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetLogger(zap.NewNop())
		}()
		go func() {
			defer wg.Done()
			_ = Logger().Core()
		}()
	}
	wg.Wait()
}
