package segmentation

import (
	"testing"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

func TestFallbackSliceDurationPolicy(t *testing.T) {
	segments := FallbackSlice(150, entities.DurationPolicy(1))
	if len(segments) != 3 {
		t.Fatalf("Expected 3 windows over 150s, got %d", len(segments))
	}
	if segments[0].Start != 0 || segments[0].End != 60 {
		t.Errorf("First window expected [0,60), got [%f,%f)", segments[0].Start, segments[0].End)
	}
	if segments[2].Start != 120 || segments[2].End != 150 {
		t.Errorf("Final remainder expected [120,150), got [%f,%f)", segments[2].Start, segments[2].End)
	}
	for i, seg := range segments {
		if seg.Text == "" {
			t.Errorf("Window %d has empty placeholder text", i)
		}
		if seg.Speaker != entities.DefaultSpeaker {
			t.Errorf("Window %d expected speaker %d, got %d", i, entities.DefaultSpeaker, seg.Speaker)
		}
		if i > 0 && seg.Start != segments[i-1].End {
			t.Errorf("Window %d does not abut previous", i)
		}
	}
}

func TestFallbackSliceTurnPolicyUsesDefaultWidth(t *testing.T) {
	segments := FallbackSlice(90, entities.TurnPolicy(5))
	if len(segments) != 3 {
		t.Fatalf("Expected 3 windows of 30s each, got %d", len(segments))
	}
	if segments[0].End != 30 {
		t.Errorf("Turn-based fallback should use 30s windows, got %f", segments[0].End)
	}
}

func TestFallbackSliceZeroDuration(t *testing.T) {
	for _, total := range []float64{0, -1} {
		segments := FallbackSlice(total, entities.DurationPolicy(2))
		if len(segments) == 0 {
			t.Errorf("FallbackSlice(%f) must not return an empty list", total)
		}
	}
}

func TestFallbackSlicePlaceholderLabels(t *testing.T) {
	segments := FallbackSlice(3700, entities.DurationPolicy(30))
	if segments[0].Text != "[00:00 - 30:00]" {
		t.Errorf("Unexpected first label %q", segments[0].Text)
	}
	if segments[2].Text != "[1:00:00 - 1:01:40]" {
		t.Errorf("Unexpected final label %q", segments[2].Text)
	}
}
