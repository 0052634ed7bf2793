package segmentation

import (
	"strings"
	"testing"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

// wordsFromScript builds an evenly spaced word stream, one word per
// script entry, 0.5s per word.
func wordsFromScript(script []struct {
	word    string
	speaker int
}) []entities.WordTiming {
	words := make([]entities.WordTiming, 0, len(script))
	for i, s := range script {
		start := float64(i) * 0.5
		words = append(words, entities.WordTiming{
			Word:    s.word,
			Start:   start,
			End:     start + 0.5,
			Speaker: s.speaker,
		})
	}
	return words
}

func TestSegmentEmptyInput(t *testing.T) {
	segments := Segment(nil, entities.TurnPolicy(1))
	if len(segments) != 0 {
		t.Errorf("Expected empty output for empty input, got %d segments", len(segments))
	}
}

func TestSegmentSingleWord(t *testing.T) {
	words := []entities.WordTiming{{Word: "hello", Start: 0, End: 0.8, Speaker: 2}}

	segments := Segment(words, entities.TurnPolicy(1))
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	if segments[0].Text != "hello" {
		t.Errorf("Expected text 'hello', got %q", segments[0].Text)
	}
	if segments[0].Speaker != 2 {
		t.Errorf("Expected speaker 2, got %d", segments[0].Speaker)
	}
	if segments[0].ID != "seg-0" {
		t.Errorf("Expected ID seg-0, got %s", segments[0].ID)
	}
}

func TestSegmentTurnsSplitsOnSpeakerRuns(t *testing.T) {
	words := wordsFromScript([]struct {
		word    string
		speaker int
	}{
		{"a", 1}, {"b", 1}, {"c", 2}, {"d", 2}, {"e", 1},
	})

	segments := Segment(words, entities.TurnPolicy(1))
	if len(segments) != 3 {
		t.Fatalf("Expected 3 segments for 3 speaker runs, got %d", len(segments))
	}

	expected := []struct {
		text    string
		speaker int
	}{
		{"a b", 1},
		{"c d", 2},
		{"e", 1},
	}
	for i, want := range expected {
		if segments[i].Text != want.text {
			t.Errorf("Segment %d: expected text %q, got %q", i, want.text, segments[i].Text)
		}
		if segments[i].Speaker != want.speaker {
			t.Errorf("Segment %d: expected speaker %d, got %d", i, want.speaker, segments[i].Speaker)
		}
	}

	// The boundary word belongs to the new segment, not the closed one.
	if segments[1].Start != 1.0 {
		t.Errorf("Expected second segment to start at the changing word, got %f", segments[1].Start)
	}
	if segments[0].End != 1.0 {
		t.Errorf("Expected first segment to close at previous word's end, got %f", segments[0].End)
	}
}

func TestSegmentTurnsCountsChangesNotRuns(t *testing.T) {
	words := wordsFromScript([]struct {
		word    string
		speaker int
	}{
		{"a", 1}, {"b", 2}, {"c", 1}, {"d", 2}, {"e", 1},
	})

	// Two speaker changes close a segment: b's change is absorbed, c's
	// change closes the first segment and opens the next.
	segments := Segment(words, entities.TurnPolicy(2))
	if len(segments) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segments))
	}
	if segments[0].Text != "a b" {
		t.Errorf("Expected first segment 'a b', got %q", segments[0].Text)
	}
	if segments[1].Text != "c d" {
		t.Errorf("Expected second segment 'c d', got %q", segments[1].Text)
	}
	if segments[2].Text != "e" {
		t.Errorf("Expected third segment 'e', got %q", segments[2].Text)
	}
}

func TestSegmentConservesWords(t *testing.T) {
	script := []struct {
		word    string
		speaker int
	}{
		{"the", 1}, {"quick", 1}, {"brown", 2}, {"fox", 1}, {"jumps", 2},
		{"over", 2}, {"the", 1}, {"lazy", 1}, {"dog", 3},
	}
	words := wordsFromScript(script)

	policies := []entities.SlicingPolicy{
		entities.TurnPolicy(1),
		entities.TurnPolicy(3),
		entities.DurationPolicy(1),
	}

	for _, policy := range policies {
		segments := Segment(words, policy)
		var got []string
		for _, seg := range segments {
			got = append(got, strings.Fields(seg.Text)...)
		}
		if len(got) != len(script) {
			t.Errorf("Policy %v: expected %d words, got %d", policy, len(script), len(got))
			continue
		}
		for i, s := range script {
			if got[i] != s.word {
				t.Errorf("Policy %v: word %d expected %q, got %q", policy, i, s.word, got[i])
			}
		}
	}
}

func TestSegmentDurationBoundsWidth(t *testing.T) {
	// Continuous single-speaker stream spanning 150s, one word per second.
	var words []entities.WordTiming
	for i := 0; i < 150; i++ {
		words = append(words, entities.WordTiming{
			Word:    "w",
			Start:   float64(i),
			End:     float64(i + 1),
			Speaker: 1,
		})
	}

	segments := Segment(words, entities.DurationPolicy(1))
	if len(segments) < 3 {
		t.Fatalf("Expected at least 3 segments over 150s, got %d", len(segments))
	}
	for i, seg := range segments {
		if i < len(segments)-1 && seg.Duration() > 60.0 {
			t.Errorf("Segment %d wider than 60s: %f", i, seg.Duration())
		}
		if i > 0 && seg.Start < segments[i-1].End {
			t.Errorf("Segment %d overlaps previous", i)
		}
	}
	if last := segments[len(segments)-1]; last.End != 150.0 {
		t.Errorf("Expected final segment to end at 150, got %f", last.End)
	}
}

func TestSegmentDurationKeepsFirstWordSpeaker(t *testing.T) {
	words := wordsFromScript([]struct {
		word    string
		speaker int
	}{
		{"a", 3}, {"b", 1}, {"c", 2},
	})

	segments := Segment(words, entities.DurationPolicy(1))
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	if segments[0].Speaker != 3 {
		t.Errorf("Mixed-speaker segment should carry first word's speaker, got %d", segments[0].Speaker)
	}
}

func TestSegmentToleratesMalformedTiming(t *testing.T) {
	words := []entities.WordTiming{
		{Word: "ok", Start: 0, End: 1, Speaker: 1},
		{Word: "broken", Start: 2, End: 2, Speaker: 2},   // zero duration
		{Word: "inverted", Start: 4, End: 3, Speaker: 1}, // end before start
		{Word: "tail", Start: 5, End: 6},                 // absent speaker
	}

	segments := Segment(words, entities.TurnPolicy(1))
	if len(segments) == 0 {
		t.Fatal("Malformed timing must not produce an empty result")
	}
	for i, seg := range segments {
		if seg.End <= seg.Start {
			t.Errorf("Segment %d has non-positive duration", i)
		}
		if seg.Speaker < 1 {
			t.Errorf("Segment %d has out-of-range speaker %d", i, seg.Speaker)
		}
		if i > 0 && seg.Start < segments[i-1].End {
			t.Errorf("Segment %d overlaps previous", i)
		}
	}
}

func TestGroupTurns(t *testing.T) {
	segments := []entities.Segment{
		{ID: "seg-0", Start: 0, End: 1, Text: "a", Speaker: 1},
		{ID: "seg-1", Start: 1, End: 2, Text: "b", Speaker: 1},
		{ID: "seg-2", Start: 2, End: 3, Text: "c", Speaker: 2},
		{ID: "seg-3", Start: 3, End: 4, Text: "d", Speaker: 1},
	}

	turns := GroupTurns(segments)
	if len(turns) != 3 {
		t.Fatalf("Expected 3 turns, got %d", len(turns))
	}
	if len(turns[0].Indices) != 2 || turns[0].Indices[0] != 0 || turns[0].Indices[1] != 1 {
		t.Errorf("First turn should carry indices [0 1], got %v", turns[0].Indices)
	}
	if turns[1].Speaker != 2 || turns[2].Speaker != 1 {
		t.Errorf("Unexpected turn speakers: %d, %d", turns[1].Speaker, turns[2].Speaker)
	}
}
