package playback

import (
	"strings"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

// lookaheadPerSpeed compensates for perceptual lag so the highlight feels
// synchronous rather than late. Seconds of lookahead at 1.0x, scaled by
// the playback rate.
const lookaheadPerSpeed = 0.3

// TokenClass classifies a token relative to the active one, for styling.
type TokenClass string

const (
	TokenPast   TokenClass = "past"
	TokenActive TokenClass = "active"
	TokenFuture TokenClass = "future"
)

// TokenState pairs one token of a segment's text with its highlight class.
type TokenState struct {
	Token string     `json:"token"`
	Class TokenClass `json:"class"`
}

// ActiveTokenIndex maps a playback position inside a segment to the token
// being spoken. Only segment-level timing exists, so the segment's time
// budget is distributed over tokens weighted by character length plus one:
// longer words consume proportionally more of it. The result is monotonic
// in now for a fixed segment and speed, and always lies within
// [0, tokenCount-1]; the bool is false only when the segment has no text.
func ActiveTokenIndex(seg entities.Segment, now, speed float64) (int, bool) {
	tokens := strings.Fields(seg.Text)
	if len(tokens) == 0 {
		return 0, false
	}

	progress := segmentProgress(seg, now, speed)

	total := 0.0
	for _, tok := range tokens {
		total += float64(len(tok) + 1)
	}

	cumulative := 0.0
	for i, tok := range tokens {
		cumulative += float64(len(tok) + 1)
		if cumulative/total >= progress {
			return i, true
		}
	}
	return len(tokens) - 1, true
}

// TokenStates classifies every token of a segment for rendering.
func TokenStates(seg entities.Segment, now, speed float64) []TokenState {
	tokens := strings.Fields(seg.Text)
	if len(tokens) == 0 {
		return nil
	}

	active, _ := ActiveTokenIndex(seg, now, speed)
	states := make([]TokenState, len(tokens))
	for i, tok := range tokens {
		class := TokenActive
		if i < active {
			class = TokenPast
		} else if i > active {
			class = TokenFuture
		}
		states[i] = TokenState{Token: tok, Class: class}
	}
	return states
}

// segmentProgress is the clamped fraction of the segment already played,
// shifted forward by the speed-scaled lookahead.
func segmentProgress(seg entities.Segment, now, speed float64) float64 {
	dur := seg.Duration()
	if dur <= 0 {
		return 1
	}
	p := (now - seg.Start + lookaheadPerSpeed*speed) / dur
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
