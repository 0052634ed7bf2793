package playback

import (
	"testing"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

// fakeClock records transport commands for assertions.
type fakeClock struct {
	ready    bool
	time     float64
	rate     float64
	playing  bool
	seeks    []float64
	seekedTo float64
}

func (c *fakeClock) CurrentTime() float64 { return c.time }
func (c *fakeClock) Seek(t float64)       { c.seeks = append(c.seeks, t); c.seekedTo = t; c.time = t }
func (c *fakeClock) Play()                { c.playing = true }
func (c *fakeClock) Pause()               { c.playing = false }
func (c *fakeClock) SetRate(r float64)    { c.rate = r }
func (c *fakeClock) Ready() bool          { return c.ready }

func testSegments() []entities.Segment {
	return []entities.Segment{
		{ID: "seg-0", Start: 0, End: 10, Text: "first segment here", Speaker: 1},
		{ID: "seg-1", Start: 10, End: 20, Text: "second one", Speaker: 2},
		{ID: "seg-2", Start: 25, End: 30, Text: "after a gap", Speaker: 1},
	}
}

func readyEngine() (*Engine, *fakeClock) {
	clock := &fakeClock{ready: true}
	engine := NewEngine(clock)
	engine.SetSegments(testSegments())
	return engine, clock
}

func TestTickResolvesNeighborSegment(t *testing.T) {
	engine, _ := readyEngine()

	engine.Tick(5)
	if got := engine.State().ActiveSegment; got != 0 {
		t.Errorf("Expected active segment 0, got %d", got)
	}

	engine.Tick(12)
	if got := engine.State().ActiveSegment; got != 1 {
		t.Errorf("Expected active segment 1 after crossing boundary, got %d", got)
	}
}

func TestTickResolvesDistantSegment(t *testing.T) {
	engine, _ := readyEngine()

	engine.Tick(27)
	if got := engine.State().ActiveSegment; got != 2 {
		t.Errorf("Expected full scan to find segment 2, got %d", got)
	}
}

func TestTickInGapRetainsActiveSegment(t *testing.T) {
	engine, _ := readyEngine()

	engine.Tick(12)
	engine.Tick(22) // between seg-1 end and seg-2 start
	if got := engine.State().ActiveSegment; got != 1 {
		t.Errorf("Gap tick should retain last valid index, got %d", got)
	}
}

func TestTickNoOpWhenClockNotReady(t *testing.T) {
	clock := &fakeClock{ready: false}
	engine := NewEngine(clock)
	engine.SetSegments(testSegments())

	engine.Tick(15)
	state := engine.State()
	if state.ActiveSegment != 0 || state.CurrentTime != 0 {
		t.Errorf("Tick on not-ready clock must be a no-op, got %+v", state)
	}
}

func TestSegmentEndAdvances(t *testing.T) {
	engine, clock := readyEngine()

	engine.SegmentEnd()
	if got := engine.State().ActiveSegment; got != 1 {
		t.Errorf("Expected advance to segment 1, got %d", got)
	}
	if clock.seekedTo != 10 {
		t.Errorf("Expected seek to 10, got %f", clock.seekedTo)
	}
	if !clock.playing {
		t.Error("Expected playback to resume after advance")
	}
}

func TestSegmentEndStopsAtListEnd(t *testing.T) {
	engine, clock := readyEngine()
	engine.JumpToSegment(2)

	engine.SegmentEnd()
	state := engine.State()
	if state.ActiveSegment != 2 {
		t.Errorf("Expected to stay on last segment, got %d", state.ActiveSegment)
	}
	if clock.playing || state.Playing {
		t.Error("Expected playback to stop at end of list")
	}
}

func TestSegmentEndRepeatsSingle(t *testing.T) {
	engine, clock := readyEngine()
	engine.JumpToSegment(1)
	engine.SetLoopMode(LoopSingle)

	engine.SegmentEnd()
	if got := engine.State().ActiveSegment; got != 1 {
		t.Errorf("LoopSingle must stay on segment 1, got %d", got)
	}
	if clock.seekedTo != 10 {
		t.Errorf("Expected seek back to segment start 10, got %f", clock.seekedTo)
	}
	if !clock.playing {
		t.Error("Expected repeat to resume playback")
	}
}

func TestSegmentEndPausesInLoopNone(t *testing.T) {
	engine, clock := readyEngine()
	engine.JumpToSegment(0)
	engine.SetLoopMode(LoopNone)

	engine.SegmentEnd()
	if clock.playing {
		t.Error("LoopNone must pause at segment end")
	}
	if got := engine.State().ActiveSegment; got != 0 {
		t.Errorf("LoopNone must not advance, got %d", got)
	}
}

func TestJumpToSegment(t *testing.T) {
	engine, clock := readyEngine()

	engine.JumpToSegment(2)
	state := engine.State()
	if state.ActiveSegment != 2 || clock.seekedTo != 25 || !state.Playing {
		t.Errorf("Jump should seek and play, got %+v (seek %f)", state, clock.seekedTo)
	}

	// Out of range is a no-op.
	engine.JumpToSegment(99)
	if got := engine.State().ActiveSegment; got != 2 {
		t.Errorf("Out-of-range jump must be a no-op, got %d", got)
	}
	engine.JumpToSegment(-1)
	if got := engine.State().ActiveSegment; got != 2 {
		t.Errorf("Negative jump must be a no-op, got %d", got)
	}
}

func TestJumpNoOpWhenClockNotReady(t *testing.T) {
	clock := &fakeClock{ready: false}
	engine := NewEngine(clock)
	engine.SetSegments(testSegments())

	engine.JumpToSegment(1)
	if len(clock.seeks) != 0 {
		t.Error("Jump on not-ready clock must not touch the clock")
	}
	if got := engine.State().ActiveSegment; got != 0 {
		t.Errorf("Jump on not-ready clock must be a no-op, got %d", got)
	}
}

func TestSeekFraction(t *testing.T) {
	engine, clock := readyEngine()
	engine.Tick(12)

	engine.SeekFraction(0.5, 30)
	if clock.seekedTo != 15 {
		t.Errorf("Expected seek to 15, got %f", clock.seekedTo)
	}
	// Seek alone does not move the active segment; the next tick does.
	if got := engine.State().ActiveSegment; got != 1 {
		t.Errorf("SeekFraction must not change the active segment, got %d", got)
	}

	engine.SeekFraction(1.5, 30)
	if clock.seekedTo != 30 {
		t.Errorf("Fraction above 1 must clamp, got %f", clock.seekedTo)
	}
	engine.SeekFraction(-0.5, 30)
	if clock.seekedTo != 0 {
		t.Errorf("Fraction below 0 must clamp, got %f", clock.seekedTo)
	}
}

func TestCycleSpeed(t *testing.T) {
	engine, clock := readyEngine()

	if got := engine.CycleSpeed(); got != 1.25 {
		t.Errorf("Expected 1.25 after first cycle, got %f", got)
	}
	if clock.rate != 1.25 {
		t.Errorf("Expected rate applied to clock, got %f", clock.rate)
	}

	// 1.25 -> 1.5 -> 1.75 -> 2.0 -> wrap to 0.5
	engine.CycleSpeed()
	engine.CycleSpeed()
	if got := engine.CycleSpeed(); got != 2.0 {
		t.Errorf("Expected 2.0, got %f", got)
	}
	if got := engine.CycleSpeed(); got != 0.5 {
		t.Errorf("Expected wrap to 0.5 past 2.0, got %f", got)
	}
}

func TestSetSegmentsResetsState(t *testing.T) {
	engine, _ := readyEngine()
	engine.JumpToSegment(2)

	replacement := []entities.Segment{
		{ID: "seg-0", Start: 0, End: 5, Text: "only one", Speaker: 1},
	}
	engine.SetSegments(replacement)

	state := engine.State()
	if state.ActiveSegment != 0 || state.CurrentTime != 0 || state.Playing {
		t.Errorf("SetSegments must reset playback state, got %+v", state)
	}

	// Ticks queued from before the switch resolve against the new list
	// only: they can never report an index outside its bounds.
	for _, now := range []float64{2, 12, 27, 99} {
		engine.Tick(now)
		if got := engine.State().ActiveSegment; got < 0 || got >= len(replacement) {
			t.Errorf("Tick(%f) after session switch left index %d out of bounds", now, got)
		}
	}
}

func TestSegmentEndNoSegments(t *testing.T) {
	clock := &fakeClock{ready: true}
	engine := NewEngine(clock)

	// Must not panic and must not touch the clock.
	engine.SegmentEnd()
	engine.Tick(5)
	if len(clock.seeks) != 0 {
		t.Error("Engine without segments must not drive the clock")
	}
}
