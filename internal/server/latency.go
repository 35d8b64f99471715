package server

import (
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/gofiber/fiber/v2"
)

// Histogram bounds in microseconds.
const (
	minLatencyMicros = 1
	maxLatencyMicros = 60_000_000
	sigFigs          = 3
)

type LatencyRecorder struct {
	mu     sync.Mutex
	routes map[string]*hdrhistogram.Histogram
}

type LatencySummary struct {
	Route string `json:"route"`
	Count int64  `json:"count"`
	P50   int64  `json:"p50Micros"`
	P95   int64  `json:"p95Micros"`
	P99   int64  `json:"p99Micros"`
	Max   int64  `json:"maxMicros"`
}

func NewLatencyRecorder() *LatencyRecorder {
	return &LatencyRecorder{routes: map[string]*hdrhistogram.Histogram{}}
}

func (l *LatencyRecorder) Record(route string, d time.Duration) {
	micros := d.Microseconds()
	if micros < minLatencyMicros {
		micros = minLatencyMicros
	}
	if micros > maxLatencyMicros {
		micros = maxLatencyMicros
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	h, ok := l.routes[route]
	if !ok {
		h = hdrhistogram.New(minLatencyMicros, maxLatencyMicros, sigFigs)
		l.routes[route] = h
	}
	_ = h.RecordValue(micros)
}

// Snapshot returns one summary per route, sorted by route.
func (l *LatencyRecorder) Snapshot() []LatencySummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LatencySummary, 0, len(l.routes))
	for route, h := range l.routes {
		out = append(out, LatencySummary{
			Route: route,
			Count: h.TotalCount(),
			P50:   h.ValueAtQuantile(50),
			P95:   h.ValueAtQuantile(95),
			P99:   h.ValueAtQuantile(99),
			Max:   h.Max(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Route < out[j].Route })
	return out
}

// Middleware records the handling time of each request under its route
// template, so /posts/:id is one series rather than one per id.
func (l *LatencyRecorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		l.Record(c.Method()+" "+c.Route().Path, time.Since(start))
		return err
	}
}

func (l *LatencyRecorder) Handler(c *fiber.Ctx) error {
	return c.JSON(l.Snapshot())
}
