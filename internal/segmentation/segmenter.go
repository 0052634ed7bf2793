package segmentation

import (
	"fmt"
	"strings"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

// minDuration is the clamp applied to malformed timing records whose end
// does not come after their start. They still contribute to the walk
// instead of aborting the import.
const minDuration = 0.001

// Segment converts a flat word-timing stream into dialogue segments under
// the given slicing policy. It is a pure function of its inputs: no I/O,
// no clock. An empty word list yields an empty result, which callers treat
// as the signal to fall back to placeholder slicing.
//
// Word timings are taken as authoritative per record; mildly unordered or
// overlapping input is tolerated, and the output still satisfies the
// non-decreasing, non-overlapping segment invariant.
func Segment(words []entities.WordTiming, policy entities.SlicingPolicy) []entities.Segment {
	if len(words) == 0 {
		return nil
	}

	var (
		segments []entities.Segment
		pending  []entities.WordTiming
		changes  int
		lastSpk  int
	)

	limit := float64(policy.MinutesPerSlice) * 60

	flush := func() {
		if len(pending) == 0 {
			return
		}
		segments = append(segments, buildSegment(segments, pending))
		pending = pending[:0:0]
	}

	for _, w := range words {
		w = normalize(w)

		if len(pending) == 0 {
			pending = append(pending, w)
			lastSpk = w.Speaker
			changes = 0
			continue
		}

		switch policy.Kind {
		case entities.PolicyTurns:
			if w.Speaker != lastSpk {
				lastSpk = w.Speaker
				changes++
				if changes >= policy.TurnsPerSlice {
					// Close at the previous word's end so the word that
					// triggered the change opens the next segment.
					flush()
					pending = append(pending, w)
					changes = 0
					continue
				}
			}
		case entities.PolicyDuration:
			if w.End-pending[0].Start > limit {
				flush()
				pending = append(pending, w)
				lastSpk = w.Speaker
				changes = 0
				continue
			}
		}

		pending = append(pending, w)
	}

	flush()
	return segments
}

// normalize clamps malformed timing and defaults an absent speaker tag.
func normalize(w entities.WordTiming) entities.WordTiming {
	if w.Speaker < 1 {
		w.Speaker = entities.DefaultSpeaker
	}
	if w.End <= w.Start {
		w.End = w.Start + minDuration
	}
	return w
}

// buildSegment closes a pending word run into a segment, clamped so the
// output list keeps its ordering and non-overlap invariants even when the
// input stream was slightly out of order.
func buildSegment(closed []entities.Segment, pending []entities.WordTiming) entities.Segment {
	start := pending[0].Start
	end := pending[len(pending)-1].End
	if n := len(closed); n > 0 && start < closed[n-1].End {
		start = closed[n-1].End
	}
	if end <= start {
		end = start + minDuration
	}

	texts := make([]string, 0, len(pending))
	for _, w := range pending {
		if w.Word != "" {
			texts = append(texts, w.Word)
		}
	}

	return entities.Segment{
		ID:      fmt.Sprintf("seg-%d", len(closed)),
		Start:   start,
		End:     end,
		Text:    strings.Join(texts, " "),
		Speaker: pending[0].Speaker,
	}
}
