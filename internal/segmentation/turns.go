package segmentation

import "github.com/madmonkey007/EchoListenultra/domain/entities"

// GroupTurns collapses a segment list into maximal runs of consecutive
// segments sharing one speaker, for grouped transcript rendering. Each
// turn carries its members' original indices so taps still resolve to the
// right segment. Recomputed on demand, never persisted.
func GroupTurns(segments []entities.Segment) []entities.Turn {
	var turns []entities.Turn
	for i, seg := range segments {
		if n := len(turns); n > 0 && turns[n-1].Speaker == seg.Speaker {
			turns[n-1].Indices = append(turns[n-1].Indices, i)
			turns[n-1].Segments = append(turns[n-1].Segments, seg)
			continue
		}
		turns = append(turns, entities.Turn{
			Speaker:  seg.Speaker,
			Indices:  []int{i},
			Segments: []entities.Segment{seg},
		})
	}
	return turns
}
