package profiler

import (
	"log"
	"runtime"
	"time"
)

// Profiler tracks frame rate and memory statistics for the render loop.
// Stats are written to the log once per interval.
type Profiler struct {
	label      string
	interval   time.Duration
	frameCount int
	lastTime   time.Time
	memStats   runtime.MemStats

	lastTotalAlloc uint64
}

// NewProfiler creates a Profiler that logs once per second.
//
// Parameters:
//   - label: prefix for the log lines, e.g. "render"
//
// Returns:
//   - *Profiler: the newly created profiler
func NewProfiler(label string) *Profiler {
	return &Profiler{
		label:    label,
		interval: time.Second,
		lastTime: time.Now(),
	}
}

// Tick counts one frame and logs FPS, heap size, allocation rate, and GC
// count when the interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.interval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	log.Printf("[%s] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d",
		p.label, fps, heapMB, allocRateMB, p.memStats.NumGC)

	p.frameCount = 0
	p.lastTime = now
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
