package profiling

import (
	"testing"
	"time"
)

func fakeClock(steps ...time.Duration) func() time.Time {
	base := time.Unix(0, 0)
	i := 0
	return func() time.Time {
		t := base
		if i < len(steps) {
			t = base.Add(steps[i])
		}
		i++
		return t
	}
}

func TestTrackAccumulates(t *testing.T) {
	r := NewRecorder()
	r.now = fakeClock(0, 2*time.Millisecond, 0, 3*time.Millisecond)
	r.Track("renderer.Render")()
	r.Track("renderer.Render")()

	if got := r.Snapshot()["renderer.Render"]; got != 5*time.Millisecond {
		t.Fatalf("got %v, want 5ms", got)
	}
}

func TestSumWithPrefixAndReset(t *testing.T) {
	r := NewRecorder()
	r.Add("renderer.Render", 4*time.Millisecond)
	r.Add("renderer.Upload", time.Millisecond)
	r.Add("animation.Frame", 300*time.Microsecond)

	if got := r.SumWithPrefix("renderer."); got != 5*time.Millisecond {
		t.Fatalf("renderer sum: got %v, want 5ms", got)
	}
	r.Reset()
	if got := len(r.Snapshot()); got != 0 {
		t.Fatalf("after reset: got %d buckets, want 0", got)
	}
}

func TestTopN(t *testing.T) {
	r := NewRecorder()
	r.Add("a", time.Millisecond)
	r.Add("b", 4200*time.Microsecond)
	r.Add("c", 100*time.Microsecond)

	if got, want := r.TopN(2), "b:4.2ms, a:1.0ms"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got, want := r.TopN(10), "b:4.2ms, a:1.0ms, c:0.1ms"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
