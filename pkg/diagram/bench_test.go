package diagram

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/recera/dotrender/pkg/vdom"
)

const sampleSVG = `<svg width="206pt" height="116pt" viewBox="0.00 0.00 206.00 116.00" xmlns="http://www.w3.org/2000/svg">
<g id="graph0" class="graph" transform="scale(1 1) rotate(0) translate(4 112)">
<g id="node1" class="node"><title>a</title><ellipse cx="27" cy="-90" rx="27" ry="18"/><text x="27" y="-86.3">a</text></g>
<g id="node2" class="node"><title>b</title><ellipse cx="27" cy="-18" rx="27" ry="18"/><text x="27" y="-14.3">b</text></g>
<g id="edge1" class="edge"><title>a&#45;&gt;b</title><path d="M27,-71.7C27,-63.98 27,-54.71 27,-46.11"/></g>
</g>
</svg>`

// TestApplyLatencyP95 checks that the element itself adds little on top of
// the renderer: from a property change to the fitted graphic being displayed.
func TestApplyLatencyP95(t *testing.T) {
	const numRenders = 200

	graphic := graphicOf(206, 116, "sample")
	r := RendererFunc(func(ctx context.Context, content string) (*Graphic, error) {
		return graphic, nil
	})

	events := make(chan Event, 1)
	el := New(r, DisplayFunc(func(*vdom.VNode) error { return nil }), WithObserver(func(ev Event) {
		events <- ev
	}))
	defer el.Close()

	el.SetHeight(100)
	el.SetWidth(100)
	<-events
	<-events

	latencies := make([]time.Duration, 0, numRenders)
	for i := 0; i < numRenders; i++ {
		start := time.Now()
		el.SetContent(strconv.Itoa(i))
		ev := <-events
		latencies = append(latencies, time.Since(start))

		if ev.Kind != EventApplied {
			t.Fatalf("render %d: %s %v", i, ev.Kind, ev.Err)
		}
	}

	p95 := calculatePercentile(latencies, 95)
	if p95 > 10*time.Millisecond {
		t.Errorf("apply latency P95 is %v, expected <10ms", p95)
	} else {
		t.Logf("✓ Apply latency P95: %v", p95)
	}
	t.Logf("  P50: %v, P99: %v", calculatePercentile(latencies, 50), calculatePercentile(latencies, 99))
}

// BenchmarkFit benchmarks the box fitting arithmetic
func BenchmarkFit(b *testing.B) {
	intrinsic := Size{ToDisplay(206), ToDisplay(116)}
	box := Size{100, 100}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Fit(intrinsic, box)
	}
}

// BenchmarkParseAndResize benchmarks turning renderer output into a fitted node
func BenchmarkParseAndResize(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		g, err := ParseGraphic(strings.NewReader(sampleSVG))
		if err != nil {
			b.Fatal(err)
		}
		size, err := g.IntrinsicSize()
		if err != nil {
			b.Fatal(err)
		}
		_ = g.Resize(Fit(size, Size{100, 100}))
	}
}

func calculatePercentile(durations []time.Duration, percentile float64) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	sorted := append([]time.Duration(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	index := int(math.Ceil(float64(len(sorted))*percentile/100.0)) - 1
	if index < 0 {
		index = 0
	}
	return sorted[index]
}
