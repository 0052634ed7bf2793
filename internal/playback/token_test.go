package playback

import (
	"testing"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

func TestActiveTokenIndexEmptyText(t *testing.T) {
	seg := entities.Segment{Start: 0, End: 10}
	if _, ok := ActiveTokenIndex(seg, 5, 1.0); ok {
		t.Error("Empty segment text must report no active token")
	}
}

func TestActiveTokenIndexBounds(t *testing.T) {
	seg := entities.Segment{Start: 0, End: 10, Text: "one two three"}

	for _, now := range []float64{-5, 0, 2.5, 5, 9.9, 10, 50} {
		idx, ok := ActiveTokenIndex(seg, now, 1.0)
		if !ok {
			t.Fatalf("Expected a token at now=%f", now)
		}
		if idx < 0 || idx > 2 {
			t.Errorf("Token index %d out of bounds at now=%f", idx, now)
		}
	}

	if idx, _ := ActiveTokenIndex(seg, -5, 1.0); idx != 0 {
		t.Errorf("Before the segment the first token is active, got %d", idx)
	}
	if idx, _ := ActiveTokenIndex(seg, 50, 1.0); idx != 2 {
		t.Errorf("Past the segment the last token is active, got %d", idx)
	}
}

func TestActiveTokenIndexMonotonic(t *testing.T) {
	seg := entities.Segment{Start: 10, End: 22, Text: "a considerably longer sentence with uneven word lengths"}

	prev := -1
	for now := seg.Start - 1; now <= seg.End+1; now += 0.05 {
		idx, ok := ActiveTokenIndex(seg, now, 1.0)
		if !ok {
			t.Fatalf("Expected a token at now=%f", now)
		}
		if idx < prev {
			t.Fatalf("Token index went backwards at now=%f: %d -> %d", now, prev, idx)
		}
		prev = idx
	}
}

func TestActiveTokenIndexWeighting(t *testing.T) {
	// At the same midpoint, a long head word holds the highlight longer
	// than an even split would.
	seg := entities.Segment{Start: 0, End: 10, Text: "extraordinarily so"}

	idx, _ := ActiveTokenIndex(seg, 5, 0) // speed 0 disables lookahead
	if idx != 0 {
		t.Errorf("Long head word should still be active at midpoint, got token %d", idx)
	}
	idx, _ = ActiveTokenIndex(seg, 9.5, 0)
	if idx != 1 {
		t.Errorf("Tail token should be active near the end, got %d", idx)
	}
}

func TestActiveTokenLookaheadScalesWithSpeed(t *testing.T) {
	seg := entities.Segment{Start: 0, End: 2, Text: "aa bb"}

	// Halfway, zero lookahead: exactly the boundary of the first token.
	slow, _ := ActiveTokenIndex(seg, 0.9, 0)
	fast, _ := ActiveTokenIndex(seg, 0.9, 2.0)
	if slow != 0 {
		t.Errorf("Expected first token without lookahead, got %d", slow)
	}
	if fast != 1 {
		t.Errorf("Expected lookahead at 2.0x to pull the highlight forward, got %d", fast)
	}
}

func TestTokenStates(t *testing.T) {
	seg := entities.Segment{Start: 0, End: 3, Text: "aa bb cc"}

	states := TokenStates(seg, 1.4, 0)
	if len(states) != 3 {
		t.Fatalf("Expected 3 token states, got %d", len(states))
	}
	if states[0].Class != TokenPast || states[1].Class != TokenActive || states[2].Class != TokenFuture {
		t.Errorf("Unexpected classes: %v", states)
	}
}

func TestTokenStatesEmpty(t *testing.T) {
	if states := TokenStates(entities.Segment{Start: 0, End: 1}, 0, 1.0); states != nil {
		t.Errorf("Empty text should yield nil states, got %v", states)
	}
}
