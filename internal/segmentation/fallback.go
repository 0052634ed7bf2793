package segmentation

import (
	"fmt"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

const (
	// fallbackTurnWidth is the window width used when the policy is
	// turn-based and therefore not time-denominated.
	fallbackTurnWidth = 30.0

	// assumedDuration stands in when the recording's length is unknown,
	// so the player always has something to render and seek against.
	assumedDuration = 300.0
)

// FallbackSlice produces evenly spaced placeholder segments covering
// [0, totalDuration) when no transcription is available. It never returns
// an empty list: an unknown or zero duration is replaced with an assumed
// default. Placeholder text is a synthetic label derived from the window's
// time offset so it cannot be mistaken for real transcript content.
func FallbackSlice(totalDuration float64, policy entities.SlicingPolicy) []entities.Segment {
	width := fallbackTurnWidth
	if policy.Kind == entities.PolicyDuration && policy.MinutesPerSlice > 0 {
		width = float64(policy.MinutesPerSlice) * 60
	}

	if totalDuration <= 0 {
		totalDuration = assumedDuration
	}

	var segments []entities.Segment
	for start := 0.0; start < totalDuration; start += width {
		end := start + width
		if end > totalDuration {
			end = totalDuration
		}
		segments = append(segments, entities.Segment{
			ID:      fmt.Sprintf("seg-%d", len(segments)),
			Start:   start,
			End:     end,
			Text:    fmt.Sprintf("[%s - %s]", formatOffset(start), formatOffset(end)),
			Speaker: entities.DefaultSpeaker,
		})
	}
	return segments
}

// formatOffset renders a second offset as mm:ss (or h:mm:ss past an hour).
func formatOffset(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
