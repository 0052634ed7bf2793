package playback

import (
	"math"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

// LoopMode governs what happens when the active segment's audio finishes.
type LoopMode string

const (
	// LoopAdvance plays through the segment list. At the end of the last
	// segment playback stops on that segment; it does not wrap to the
	// first one.
	LoopAdvance LoopMode = "advance"
	// LoopSingle repeats the active segment until the user intervenes.
	LoopSingle LoopMode = "single"
	// LoopNone pauses at the end of the active segment.
	LoopNone LoopMode = "none"
)

const (
	minSpeed  = 0.5
	maxSpeed  = 2.0
	speedStep = 0.25
)

// State is the session-scoped playback state owned by the engine.
type State struct {
	ActiveSegment int      `json:"active_segment"`
	CurrentTime   float64  `json:"current_time"`
	Mode          LoopMode `json:"loop_mode"`
	Speed         float64  `json:"speed"`
	Playing       bool     `json:"playing"`
}

// Engine maps a moving playback position to an active segment and token,
// and drives the clock on segment boundaries according to the loop mode.
// It holds an immutable segment snapshot that is only ever replaced
// wholesale via SetSegments, so a tick arriving after a session switch can
// never resolve against the previous session's list.
//
// The engine is not safe for concurrent use; callers serialize access (a
// single tick loop plus user actions between ticks).
type Engine struct {
	clock    Clock
	segments []entities.Segment
	state    State
}

// NewEngine creates an engine with no segments loaded.
func NewEngine(clock Clock) *Engine {
	return &Engine{
		clock: clock,
		state: State{Mode: LoopAdvance, Speed: 1.0},
	}
}

// SetSegments swaps the segment snapshot and resets playback state.
// Loop mode and speed survive the switch; position does not.
func (e *Engine) SetSegments(segments []entities.Segment) {
	e.segments = segments
	e.state.ActiveSegment = 0
	e.state.CurrentTime = 0
	e.state.Playing = false
}

// State returns a copy of the current playback state.
func (e *Engine) State() State {
	return e.state
}

// Segments returns the current segment snapshot.
func (e *Engine) Segments() []entities.Segment {
	return e.segments
}

// ActiveSegment returns the active segment, or false when none is loaded.
func (e *Engine) ActiveSegment() (entities.Segment, bool) {
	if len(e.segments) == 0 {
		return entities.Segment{}, false
	}
	return e.segments[e.state.ActiveSegment], true
}

// Tick advances the engine to the given playback position. When the
// position leaves the active segment it resolves the containing segment,
// checking neighbors before falling back to a full scan. A position in a
// gap between segments leaves the active index unchanged. Tick never
// fails; it is called on every animation frame.
func (e *Engine) Tick(now float64) {
	if !e.clock.Ready() || len(e.segments) == 0 {
		return
	}
	e.state.CurrentTime = now

	if e.segments[e.state.ActiveSegment].Contains(now) {
		return
	}
	if idx, ok := e.resolve(now); ok {
		e.state.ActiveSegment = idx
	}
}

// resolve finds the segment containing t, neighbor-check first since the
// position usually moves to an adjacent segment between ticks.
func (e *Engine) resolve(t float64) (int, bool) {
	active := e.state.ActiveSegment
	for _, idx := range []int{active + 1, active - 1} {
		if idx >= 0 && idx < len(e.segments) && e.segments[idx].Contains(t) {
			return idx, true
		}
	}
	for i, seg := range e.segments {
		if seg.Contains(t) {
			return i, true
		}
	}
	return 0, false
}

// SegmentEnd reacts to the clock reaching the end of the active segment's
// audio, per the loop mode.
func (e *Engine) SegmentEnd() {
	if !e.clock.Ready() || len(e.segments) == 0 {
		return
	}

	switch e.state.Mode {
	case LoopAdvance:
		if e.state.ActiveSegment < len(e.segments)-1 {
			e.state.ActiveSegment++
			seg := e.segments[e.state.ActiveSegment]
			e.state.CurrentTime = seg.Start
			e.clock.Seek(seg.Start)
			e.clock.Play()
			e.state.Playing = true
			return
		}
		// End of the list: stop on the last segment.
		e.clock.Pause()
		e.state.Playing = false
	case LoopSingle:
		seg := e.segments[e.state.ActiveSegment]
		e.state.CurrentTime = seg.Start
		e.clock.Seek(seg.Start)
		e.clock.Play()
		e.state.Playing = true
	case LoopNone:
		e.clock.Pause()
		e.state.Playing = false
	}
}

// JumpToSegment seeks to the start of segment idx and starts playback.
// A no-op when the clock is not ready or idx is out of range.
func (e *Engine) JumpToSegment(idx int) {
	if !e.clock.Ready() || idx < 0 || idx >= len(e.segments) {
		return
	}
	seg := e.segments[idx]
	e.state.ActiveSegment = idx
	e.state.CurrentTime = seg.Start
	e.clock.Seek(seg.Start)
	e.clock.Play()
	e.state.Playing = true
}

// SeekFraction seeks the clock to fraction p of the total duration. The
// active segment is not adjusted here; the next tick corrects it.
func (e *Engine) SeekFraction(p float64, totalDuration float64) {
	if !e.clock.Ready() {
		return
	}
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	e.clock.Seek(p * totalDuration)
}

// SetLoopMode switches the loop policy.
func (e *Engine) SetLoopMode(mode LoopMode) {
	switch mode {
	case LoopAdvance, LoopSingle, LoopNone:
		e.state.Mode = mode
	}
}

// TogglePlay flips between playing and paused.
func (e *Engine) TogglePlay() {
	if !e.clock.Ready() {
		return
	}
	if e.state.Playing {
		e.clock.Pause()
	} else {
		e.clock.Play()
	}
	e.state.Playing = !e.state.Playing
}

// CycleSpeed steps the playback rate by 0.25, wrapping past 2.0 back to
// 0.5, and applies it to the clock. Returns the new speed.
func (e *Engine) CycleSpeed() float64 {
	// Work in quarter steps to keep the cycle exact.
	quarters := int(math.Round(e.state.Speed/speedStep)) + 1
	speed := float64(quarters) * speedStep
	if speed > maxSpeed {
		speed = minSpeed
	}
	e.state.Speed = speed
	if e.clock.Ready() {
		e.clock.SetRate(speed)
	}
	return speed
}

// ActiveToken computes the highlighted token of the active segment at the
// engine's current position. The bool is false when no segment is loaded
// or the active segment has no text.
func (e *Engine) ActiveToken() (int, bool) {
	seg, ok := e.ActiveSegment()
	if !ok {
		return 0, false
	}
	return ActiveTokenIndex(seg, e.state.CurrentTime, e.state.Speed)
}
