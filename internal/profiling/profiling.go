package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Recorder accumulates named durations for the current frame.
// Usage: defer rec.Track("animation.Frame")()
type Recorder struct {
	mu     sync.Mutex
	totals map[string]time.Duration
	now    func() time.Time
}

// NewRecorder returns an empty recorder using the wall clock
func NewRecorder() *Recorder {
	return &Recorder{totals: make(map[string]time.Duration), now: time.Now}
}

// Track returns a stop function that adds the elapsed time under name
func (r *Recorder) Track(name string) func() {
	start := r.now()
	return func() {
		d := r.now().Sub(start)
		r.Add(name, d)
	}
}

// Add records d under name directly
func (r *Recorder) Add(name string, d time.Duration) {
	r.mu.Lock()
	r.totals[name] += d
	r.mu.Unlock()
}

// Reset clears the totals; call at the start of each frame
func (r *Recorder) Reset() {
	r.mu.Lock()
	clear(r.totals)
	r.mu.Unlock()
}

// Snapshot returns a copy of the current totals
func (r *Recorder) Snapshot() map[string]time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]time.Duration, len(r.totals))
	for k, v := range r.totals {
		out[k] = v
	}
	return out
}

// SumWithPrefix totals every bucket whose name starts with prefix
func (r *Recorder) SumWithPrefix(prefix string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum time.Duration
	for k, v := range r.totals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats the n largest buckets, slowest first.
// Example: "renderer.Render:4.2ms, animation.Frame:0.1ms"
func (r *Recorder) TopN(n int) string {
	type pair struct {
		name string
		dur  time.Duration
	}
	snap := r.Snapshot()
	list := make([]pair, 0, len(snap))
	for k, v := range snap {
		list = append(list, pair{k, v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		parts = append(parts, fmt.Sprintf("%s:%.1fms", p.name, float64(p.dur.Microseconds())/1000))
	}
	return strings.Join(parts, ", ")
}

var defaultRecorder = NewRecorder()

// Track records into the process-wide recorder
func Track(name string) func() { return defaultRecorder.Track(name) }

// ResetFrame clears the process-wide recorder
func ResetFrame() { defaultRecorder.Reset() }

// SumWithPrefix reads the process-wide recorder
func SumWithPrefix(prefix string) time.Duration { return defaultRecorder.SumWithPrefix(prefix) }

// TopN reads the process-wide recorder
func TopN(n int) string { return defaultRecorder.TopN(n) }
