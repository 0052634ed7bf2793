package entities

import (
	"errors"
	"fmt"
)

// DefaultSpeaker is used when the transcription provider reports no speaker tag.
const DefaultSpeaker = 1

// WordTiming is a single word-level timing record produced by a transcription
// provider. Start and End are seconds from the beginning of the recording.
// Speaker may be zero when the provider does not diarize; consumers treat
// zero as DefaultSpeaker.
type WordTiming struct {
	Word    string  `json:"word" bson:"word"`
	Start   float64 `json:"start" bson:"start"`
	End     float64 `json:"end" bson:"end"`
	Speaker int     `json:"speaker,omitempty" bson:"speaker,omitempty"`
}

// Segment is a contiguous, time-bounded, single-attribution chunk of
// transcript text. Segments are created once at import time and never
// mutated afterwards.
type Segment struct {
	ID      string  `json:"id" bson:"id"`
	Start   float64 `json:"start" bson:"start"`
	End     float64 `json:"end" bson:"end"`
	Text    string  `json:"text" bson:"text"`
	Speaker int     `json:"speaker" bson:"speaker"`
}

// Duration returns the segment's length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Contains reports whether t falls within [Start, End).
func (s Segment) Contains(t float64) bool {
	return t >= s.Start && t < s.End
}

// Turn is a maximal run of consecutive segments sharing one speaker,
// derived on demand for grouped rendering. Indices refer back to the
// session's segment list.
type Turn struct {
	Speaker  int       `json:"speaker"`
	Indices  []int     `json:"indices"`
	Segments []Segment `json:"segments"`
}

// PolicyKind discriminates the slicing policy variants.
type PolicyKind string

const (
	PolicyTurns    PolicyKind = "turns"
	PolicyDuration PolicyKind = "duration"
)

// SlicingPolicy governs where segment boundaries fall during import.
// Exactly one of TurnsPerSlice or MinutesPerSlice is meaningful,
// selected by Kind. Chosen once per import.
type SlicingPolicy struct {
	Kind            PolicyKind `json:"kind" bson:"kind"`
	TurnsPerSlice   int        `json:"turns_per_slice,omitempty" bson:"turns_per_slice,omitempty"`
	MinutesPerSlice int        `json:"minutes_per_slice,omitempty" bson:"minutes_per_slice,omitempty"`
}

// TurnPolicy builds a turn-count slicing policy.
func TurnPolicy(turnsPerSlice int) SlicingPolicy {
	return SlicingPolicy{Kind: PolicyTurns, TurnsPerSlice: turnsPerSlice}
}

// DurationPolicy builds a wall-clock slicing policy.
func DurationPolicy(minutesPerSlice int) SlicingPolicy {
	return SlicingPolicy{Kind: PolicyDuration, MinutesPerSlice: minutesPerSlice}
}

// Validate checks the policy parameters against their allowed ranges.
func (p SlicingPolicy) Validate() error {
	switch p.Kind {
	case PolicyTurns:
		if p.TurnsPerSlice < 1 || p.TurnsPerSlice > 100 {
			return fmt.Errorf("turns_per_slice must be between 1 and 100, got %d", p.TurnsPerSlice)
		}
	case PolicyDuration:
		if p.MinutesPerSlice < 1 || p.MinutesPerSlice > 60 {
			return fmt.Errorf("minutes_per_slice must be between 1 and 60, got %d", p.MinutesPerSlice)
		}
	default:
		return errors.New("unknown slicing policy kind")
	}
	return nil
}
